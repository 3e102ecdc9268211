package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/lazypower/bestfriend/internal/engine"
	"github.com/lazypower/bestfriend/internal/store"
	"github.com/spf13/cobra"
)

var upcomingDays int

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List events coming up in the next few days",
	Args:  cobra.NoArgs,
	RunE:  runUpcoming,
}

func init() {
	upcomingCmd.Flags().IntVarP(&upcomingDays, "days", "d", 0, "Lookahead window in days (default from config)")
}

func runUpcoming(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	days, err := windowDays(cmd, upcomingDays, cfg.Events.WindowDays)
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
	printOccurrences(cmd.OutOrStdout(), occ, days)
	return nil
}

// windowDays returns the --days flag when it was given, otherwise the
// configured window.
func windowDays(cmd *cobra.Command, flag, configured int) (int, error) {
	if !cmd.Flags().Changed("days") {
		return configured, nil
	}
	if flag < 0 {
		return 0, fmt.Errorf("--days must be >= 0, got %d", flag)
	}
	return flag, nil
}

func loadOccurrences(ctx context.Context, db *store.DB, today time.Time, days int) ([]engine.Occurrence, error) {
	events, err := db.ListEventsWithFriend(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return engine.UpcomingOccurrences(events, today, days), nil
}

func printOccurrences(w io.Writer, occ []engine.Occurrence, days int) {
	if len(occ) == 0 {
		fmt.Fprintf(w, "Nothing coming up in the next %d days.\n", days)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, o := range occ {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			store.FormatDate(o.On), o.Event.Friend.Name, o.Event.Title, o.Event.EventType)
	}
	tw.Flush()
}
