package api

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/metabuildlab/lims/pkg/common/code"
	corePricing "github.com/metabuildlab/lims/pkg/core/pricing"
	pricingSvc "github.com/metabuildlab/lims/pkg/core/pricing/pricing"
	"github.com/metabuildlab/lims/pkg/middleware/db"
	model "github.com/metabuildlab/lims/pkg/model"
)

// NewPricelist 从 CSV 导入价目表
func NewPricelist() *cobra.Command {
	var (
		clear  bool
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:          "import-pricelist <file.csv>",
		Long:         "Import the test catalog and price list from a CSV file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			initDB(cmd.Context())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := readPricelist(args[0])
			if err != nil {
				return err
			}

			resp, err := pricingSvc.New().ImportPriceList(cmd.Root().Context(), &corePricing.ImportReq{
				Rows:   rows,
				Clear:  clear,
				DryRun: dryRun,
			})
			if err != nil {
				return err
			}

			action := "imported"
			if dryRun {
				action = "validated"
			}
			fmt.Printf("%s %d items in %d categories (%d subcategories)\n",
				action, resp.Items, resp.Categories, resp.SubCategories)
			return nil
		},
		PostRunE: func(cmd *cobra.Command, _ []string) error {
			db.ClosePostgres(cmd.Context())
			return nil
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "clear the existing catalog before importing")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the file without writing")
	return cmd
}

func readPricelist(path string) ([]*corePricing.SaveTestItemReq, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, code.ValidationErr.WithMsg("empty price list file")
	}

	// 列位置以表头为准，顺序可变
	colIdx := map[string]int{}
	for idx, name := range header {
		colIdx[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	for _, required := range []string{"category_code", "category_name", "subcategory", "system_code", "test_name", "unit", "price"} {
		if _, ok := colIdx[required]; !ok {
			return nil, code.ValidationErr.WithMsgf("missing column: %s", required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := colIdx[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	rows := make([]*corePricing.SaveTestItemReq, 0, 64)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, code.ValidationErr.WithMsgf("line %d: %s", line, err.Error())
		}

		tat, _ := strconv.Atoi(field(record, "tat_days"))
		rows = append(rows, &corePricing.SaveTestItemReq{
			CategoryCode:   field(record, "category_code"),
			CategoryName:   field(record, "category_name"),
			SubCategory:    field(record, "subcategory"),
			SystemCode:     field(record, "system_code"),
			DisplayCode:    field(record, "display_code"),
			TestName:       field(record, "test_name"),
			MethodStandard: field(record, "method_standard"),
			Unit:           field(record, "unit"),
			Currency:       model.Currency(field(record, "currency")),
			Price:          field(record, "price"),
			TATDays:        tat,
			SampleType:     field(record, "sample_type"),
			Notes:          field(record, "notes"),
		})
	}
	if len(rows) == 0 {
		return nil, code.ValidationErr.WithMsg("price list has no data rows")
	}
	return rows, nil
}
