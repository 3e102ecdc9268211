package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/lazypower/bestfriend/internal/calendar"
	"github.com/lazypower/bestfriend/internal/engine"
	"github.com/spf13/cobra"
)

var (
	exportDays   int
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write upcoming events as an iCalendar file",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().IntVarP(&exportDays, "days", "d", 0, "Lookahead window in days (default from config)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	days, err := windowDays(cmd, exportDays, cfg.Events.WindowDays)
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	occ, err := loadOccurrences(cmd.Context(), db, engine.Today(engine.RealClock{}), days)
	if err != nil {
		return err
	}
	data, err := calendar.Render(occ, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("render calendar: %w", err)
	}

	if exportOutput == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", exportOutput, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d events to %s\n", len(occ), exportOutput)
	return nil
}
