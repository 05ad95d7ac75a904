package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Inventario-tenants/internal/application/dto"
	"github.com/jhoicas/Inventario-tenants/internal/application/usecase"
	"github.com/jhoicas/Inventario-tenants/internal/domain"
	"github.com/jhoicas/Inventario-tenants/internal/domain/authz"
	"github.com/jhoicas/Inventario-tenants/internal/domain/repository"
)

// catalogColumns columnas reconocidas en la cabecera del CSV. sku y name son obligatorias.
var catalogColumns = []string{"sku", "name", "description", "quantity", "unit_price"}

// catalogRow fila del catálogo ya validada.
type catalogRow struct {
	Line        int
	SKU         string
	Name        string
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// readCatalog lee el CSV. encoding: utf8 (por defecto) o latin1 (ISO-8859-1, exportes de hojas
// de cálculo antiguas).
func readCatalog(r io.Reader, encoding string) ([]catalogRow, error) {
	switch strings.ToLower(encoding) {
	case "", "utf8", "utf-8":
	case "latin1", "iso-8859-1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("encoding no soportado %q (utf8|latin1)", encoding)
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"sku", "name"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("falta la columna %q (columnas: %s)", required, strings.Join(catalogColumns, ","))
		}
	}
	field := func(rec []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []catalogRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		row := catalogRow{
			Line:        line,
			SKU:         field(rec, "sku"),
			Name:        field(rec, "name"),
			Description: field(rec, "description"),
			UnitPrice:   decimal.Zero,
		}
		if row.SKU == "" || row.Name == "" {
			return nil, fmt.Errorf("línea %d: sku y name son obligatorios", line)
		}
		if q := field(rec, "quantity"); q != "" {
			if row.Quantity, err = strconv.ParseInt(q, 10, 64); err != nil || row.Quantity < 0 {
				return nil, fmt.Errorf("línea %d: quantity inválida %q", line, q)
			}
		}
		if p := field(rec, "unit_price"); p != "" {
			if row.UnitPrice, err = decimal.NewFromString(strings.ReplaceAll(p, ",", ".")); err != nil || row.UnitPrice.IsNegative() {
				return nil, fmt.Errorf("línea %d: unit_price inválido %q", line, p)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func newImportCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-products <file.csv>",
		Short: "Import a product catalog (sku,name,description,quantity,unit_price) into a warehouse",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return v.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			rows, err := readCatalog(f, v.GetString("encoding"))
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, closeStore, log, err := openPostgres(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			var actorID int64
			email := strings.ToLower(v.GetString("admin-email"))
			if err := store.Run(ctx, func(r repository.Repositories) error {
				u, err := r.Users.GetByEmail(ctx, email)
				if err != nil {
					return err
				}
				if u == nil {
					return fmt.Errorf("usuario %s no existe; ejecute bootstrap primero", email)
				}
				actorID = u.ID
				return nil
			}); err != nil {
				return err
			}

			products := usecase.NewProductUseCase(store, authz.NewEngine())
			warehouseID := v.GetInt64("warehouse-id")
			var created, skipped int
			for _, row := range rows {
				_, err := products.Create(ctx, actorID, dto.CreateProductRequest{
					WarehouseID: warehouseID,
					Name:        row.Name,
					SKU:         row.SKU,
					Description: row.Description,
					Quantity:    row.Quantity,
					UnitPrice:   row.UnitPrice,
				})
				if errors.Is(err, domain.ProductSKUAlreadyExist(row.SKU)) {
					skipped++
					log.Warn().Int("line", row.Line).Str("sku", row.SKU).Msg("SKU ya existe, se omite")
					continue
				}
				if err != nil {
					return fmt.Errorf("línea %d: %w", row.Line, err)
				}
				created++
			}
			log.Info().Int("created", created).Int("skipped", skipped).Int64("warehouse_id", warehouseID).Msg("catálogo importado")
			return nil
		},
	}
	cmd.Flags().Int64("warehouse-id", 0, "target warehouse id")
	cmd.Flags().String("encoding", "utf8", "CSV encoding: utf8 | latin1")
	cmd.Flags().String("admin-email", "root@example.com", "user that performs the import (env SEED_ADMIN_EMAIL)")
	_ = cmd.MarkFlagRequired("warehouse-id")
	return cmd
}
