package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/vsinha/brickbuild/pkg/application/dto"
	"gopkg.in/yaml.v3"
)

// File names written into the output directory
const (
	SummaryFile  = "summary.csv"
	LeftoverFile = "leftover_inventory.csv"
	JSONFile     = "build_report.json"
	YAMLFile     = "build_report.yaml"
	JournalFile  = "build_journal.jsonl"
)

var (
	summaryHeader  = []string{"Target ID", "Buildable", "Avg Cost", "Price", "Profit", "Margin", "Markup", "Limiting"}
	leftoverHeader = []string{"Item ID", "Description", "Color", "Qty", "Total Cost", "Unit Cost"}
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	Out       io.Writer
}

// Generate writes the report in the configured format
func Generate(report *dto.BuildReport, config Config) error {
	if config.Out == nil {
		config.Out = os.Stdout
	}

	switch config.Format {
	case "", "text":
		return generateTextOutput(report, config)
	case "json":
		return generateJSONOutput(report, config)
	case "yaml":
		return generateYAMLOutput(report, config)
	case "csv":
		return generateCSVOutput(report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func generateTextOutput(report *dto.BuildReport, config Config) error {
	w := config.Out

	fmt.Fprintf(w, "Build Report %s\n", report.RunID)
	fmt.Fprintf(w, "====================\n\n")
	fmt.Fprintf(w, "Targets: %d\n", report.Totals.Targets)
	fmt.Fprintf(w, "Buildable: %s\n", humanize.Comma(report.Totals.Buildable))
	fmt.Fprintf(w, "Build Cost: %s\n", currency(report.Totals.BuildCost))
	fmt.Fprintf(w, "Leftover: %s items in %s lots worth %s\n",
		humanize.Comma(report.Totals.LeftoverItems),
		humanize.Comma(int64(report.Totals.LeftoverLots)),
		currency(report.Totals.LeftoverValue))
	fmt.Fprintf(w, "Consumed: %s items worth %s\n\n",
		humanize.Comma(report.Totals.ConsumedItems),
		currency(report.Totals.ConsumedCost))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Target\tBuildable\tAvg Cost\tPrice\tProfit\tMargin\tMarkup\tLimiting")
	for _, row := range report.Summary {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.TargetID,
			humanize.Comma(row.Buildable),
			currency(row.AvgCost),
			currency(row.Price),
			currency(row.Profit),
			percent(row.Margin),
			percent(row.Markup),
			row.Limiting)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if config.Verbose && len(report.Leftover) > 0 {
		fmt.Fprintf(w, "\nLeftover Inventory:\n")
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Item ID\tColor\tQty\tUnit Cost\tDescription")
		for _, row := range report.Leftover {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				row.ItemID,
				row.Color,
				humanize.Comma(row.Quantity),
				currency(row.UnitCost),
				row.Description)
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("failed to write leftover inventory: %w", err)
		}
	}

	return nil
}

func generateJSONOutput(report *dto.BuildReport, config Config) error {
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return emit(append(jsonData, '\n'), JSONFile, config)
}

func generateYAMLOutput(report *dto.BuildReport, config Config) error {
	yamlData, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return emit(yamlData, YAMLFile, config)
}

// emit prints data, or saves it under name when an output directory is set
func emit(data []byte, name string, config Config) error {
	if config.OutputDir == "" {
		_, err := config.Out.Write(data)
		return err
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, name)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	if config.Verbose {
		fmt.Fprintf(config.Out, "Results saved to: %s\n", filename)
	}
	return nil
}

// OpenJournal creates the event journal file in the output directory. The
// caller closes it.
func OpenJournal(config Config) (*os.File, error) {
	if config.OutputDir == "" {
		return nil, fmt.Errorf("output directory required for the event journal")
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(filepath.Join(config.OutputDir, JournalFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", JournalFile, err)
	}
	return file, nil
}

func generateCSVOutput(report *dto.BuildReport, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	summaryPath := filepath.Join(config.OutputDir, SummaryFile)
	if err := writeCSV(summaryPath, summaryHeader, summaryRecords(report.Summary)); err != nil {
		return fmt.Errorf("failed to write summary CSV: %w", err)
	}

	leftoverPath := filepath.Join(config.OutputDir, LeftoverFile)
	if err := writeCSV(leftoverPath, leftoverHeader, leftoverRecords(report.Leftover)); err != nil {
		return fmt.Errorf("failed to write leftover CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.Out, "CSV results saved to:\n")
		fmt.Fprintf(config.Out, "  Summary: %s\n", summaryPath)
		fmt.Fprintf(config.Out, "  Leftover: %s\n", leftoverPath)
	}

	return nil
}

func writeCSV(filename string, header []string, records [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(records); err != nil {
		return err
	}
	return file.Close()
}

func summaryRecords(rows []dto.SummaryRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.TargetID,
			strconv.FormatInt(row.Buildable, 10),
			row.AvgCost,
			row.Price,
			row.Profit,
			row.Margin,
			row.Markup,
			row.Limiting,
		})
	}
	return records
}

func leftoverRecords(rows []dto.LeftoverRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.ItemID,
			row.Description,
			row.Color,
			strconv.FormatInt(row.Quantity, 10),
			row.TotalCost,
			row.UnitCost,
		})
	}
	return records
}

// currency renders a two-place amount with thousands separators
func currency(amount string) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return amount
	}
	if d.IsNegative() {
		return "-$" + humanize.FormatFloat("#,###.##", d.Abs().InexactFloat64())
	}
	return "$" + humanize.FormatFloat("#,###.##", d.InexactFloat64())
}

// percent renders a ratio as a percentage; undefined ratios print as "-"
func percent(ratio string) string {
	if ratio == "" {
		return "-"
	}
	d, err := decimal.NewFromString(ratio)
	if err != nil {
		return ratio
	}
	return d.Shift(2).StringFixed(0) + "%"
}
