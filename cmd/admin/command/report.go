package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caremesh/healthcare/reports"
	"github.com/caremesh/healthcare/store"
)

var (
	reportUserId string
	reportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a patient roster report",
	Long:  "The report command builds an xlsx workbook with the patients, doctors and assignments of a user",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(generateReport) },
}

func generateReport(generator *reports.Generator) error {
	ctx, cancel := store.NewDbContext()
	defer cancel()

	roster, err := generator.BuildRoster(ctx, reportUserId)
	if err != nil {
		return err
	}

	file, err := reports.NewReport(*roster).Generate()
	if err != nil {
		return err
	}
	if err := file.Save(reportOutput); err != nil {
		return err
	}

	fmt.Printf("Report saved to %s\n", reportOutput)
	return nil
}

func init() {
	reportCmd.Flags().StringVar(&reportUserId, "user-id", "", "Id of the user owning the records")
	reportCmd.Flags().StringVar(&reportOutput, "output", "roster.xlsx", "Path of the generated workbook")
	_ = reportCmd.MarkFlagRequired("user-id")
	rootCmd.AddCommand(reportCmd)
}
