// cmd/opsctl/seed.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/atelier-ops/internal/app"
	"github.com/ammerola/atelier-ops/internal/core/domain"
	"github.com/ammerola/atelier-ops/internal/core/ports"
)

// catalogColumns are the recognised header names of the catalog sheet
var catalogColumns = []string{
	"order_number", "customer_name", "workshop", "workshop_phone",
	"sku", "product_name", "size", "color", "quantity",
}

var requiredCatalogColumns = []string{"order_number", "sku", "product_name", "quantity"}

// catalogRow is one order line of the catalog sheet
type catalogRow struct {
	Line          int
	OrderNumber   string
	CustomerName  string
	Workshop      string
	WorkshopPhone string
	SKU           string
	ProductName   string
	Size          string
	Color         string
	Quantity      int
}

// seedReport summarizes a catalog import
type seedReport struct {
	Orders     int      `json:"orders"`
	Workshops  int      `json:"workshops"`
	Variants   int      `json:"variants"`
	OrderItems int      `json:"order_items"`
	Skipped    []string `json:"skipped,omitempty"`
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var sheetName string

	cmd := &cobra.Command{
		Use:   "seed FILE.xlsx",
		Short: "Import orders, workshops and product variants from a spreadsheet",
		Long: `Reads the first sheet (or --sheet) of FILE.xlsx. The header row names the columns:
order_number, customer_name, workshop, workshop_phone, sku, product_name, size, color, quantity.
order_number, sku, product_name and quantity are required. Orders and variants are upserted by
order number and SKU; workshops and order lines are created on every run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := xlsx.OpenFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to open catalog file: %w", err)
			}
			rows, skipped, err := readCatalog(file, sheetName)
			if err != nil {
				return err
			}

			rt, err := opts.setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			repos := app.NewRepositories(rt.database, rt.log)

			report, err := importCatalog(cmd.Context(), repos.Catalog, rows, rt.log)
			if err != nil {
				return err
			}
			report.Skipped = append(skipped, report.Skipped...)
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&sheetName, "sheet", "", "sheet to read (default: first sheet)")
	return cmd
}

// readCatalog parses the catalog sheet. Rows with missing or invalid values
// are returned in skipped rather than failing the import.
func readCatalog(file *xlsx.File, sheetName string) ([]catalogRow, []string, error) {
	if len(file.Sheets) == 0 {
		return nil, nil, fmt.Errorf("no sheets found in catalog file")
	}
	sheet := file.Sheets[0]
	if sheetName != "" {
		s, ok := file.Sheet[sheetName]
		if !ok {
			return nil, nil, fmt.Errorf("sheet %q not found", sheetName)
		}
		sheet = s
	}

	var (
		rows    []catalogRow
		skipped []string
		index   map[string]int
		line    int
	)

	err := sheet.ForEachRow(func(r *xlsx.Row) error {
		line++
		get := func(col string) string {
			i, ok := index[col]
			if !ok {
				return ""
			}
			c := r.GetCell(i)
			if c == nil {
				return ""
			}
			if s, err := c.FormattedValue(); err == nil {
				return strings.TrimSpace(s)
			}
			return strings.TrimSpace(c.String())
		}

		if index == nil {
			index = make(map[string]int)
			for i := 0; i < len(catalogColumns)*2; i++ {
				c := r.GetCell(i)
				if c == nil {
					continue
				}
				name := strings.ToLower(strings.TrimSpace(c.String()))
				if name != "" {
					index[name] = i
				}
			}
			for _, col := range requiredCatalogColumns {
				if _, ok := index[col]; !ok {
					return fmt.Errorf("missing required column %q", col)
				}
			}
			return nil
		}

		row := catalogRow{
			Line:          line,
			OrderNumber:   get("order_number"),
			CustomerName:  get("customer_name"),
			Workshop:      get("workshop"),
			WorkshopPhone: get("workshop_phone"),
			SKU:           get("sku"),
			ProductName:   get("product_name"),
			Size:          get("size"),
			Color:         get("color"),
		}
		if row.OrderNumber == "" && row.SKU == "" {
			return nil
		}
		if row.OrderNumber == "" || row.SKU == "" || row.ProductName == "" {
			skipped = append(skipped, fmt.Sprintf("line %d: order_number, sku and product_name are required", line))
			return nil
		}

		qty, err := strconv.Atoi(get("quantity"))
		if err != nil || qty <= 0 {
			skipped = append(skipped, fmt.Sprintf("line %d: invalid quantity %q", line, get("quantity")))
			return nil
		}
		row.Quantity = qty

		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read catalog sheet: %w", err)
	}
	if index == nil {
		return nil, nil, fmt.Errorf("catalog sheet is empty")
	}

	return rows, skipped, nil
}

// importCatalog upserts rows. Orders and variants are keyed by order number
// and SKU; workshops are created once per name within the import.
func importCatalog(ctx context.Context, catalog ports.CatalogRepository, rows []catalogRow, log *slog.Logger) (*seedReport, error) {
	report := &seedReport{}
	orders := make(map[string]*domain.Order)
	workshops := make(map[string]*domain.Workshop)
	variants := make(map[string]*domain.ProductVariant)

	for _, row := range rows {
		order, ok := orders[row.OrderNumber]
		if !ok {
			order = &domain.Order{OrderNumber: row.OrderNumber, CustomerName: optional(row.CustomerName)}
			if err := catalog.UpsertOrder(ctx, order); err != nil {
				return report, err
			}
			orders[row.OrderNumber] = order
			report.Orders++
		}

		if row.Workshop != "" {
			if _, ok := workshops[row.Workshop]; !ok {
				workshop := &domain.Workshop{Name: row.Workshop, Phone: optional(row.WorkshopPhone)}
				if err := catalog.UpsertWorkshop(ctx, workshop); err != nil {
					return report, err
				}
				workshops[row.Workshop] = workshop
				report.Workshops++
			}
		}

		variant, ok := variants[row.SKU]
		if !ok {
			variant = &domain.ProductVariant{
				ProductName: row.ProductName,
				Size:        optional(row.Size),
				Color:       optional(row.Color),
				SKUVariant:  row.SKU,
			}
			if err := catalog.UpsertVariant(ctx, variant); err != nil {
				return report, err
			}
			variants[row.SKU] = variant
			report.Variants++
		}

		item := &domain.OrderItem{OrderID: order.ID, ProductVariantID: variant.ID, Quantity: row.Quantity}
		if err := catalog.UpsertOrderItem(ctx, item); err != nil {
			report.Skipped = append(report.Skipped, fmt.Sprintf("line %d: %v", row.Line, err))
			continue
		}
		report.OrderItems++
	}

	log.InfoContext(ctx, "catalog imported",
		slog.Int("orders", report.Orders),
		slog.Int("workshops", report.Workshops),
		slog.Int("variants", report.Variants),
		slog.Int("order_items", report.OrderItems),
		slog.Int("skipped", len(report.Skipped)))

	return report, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
