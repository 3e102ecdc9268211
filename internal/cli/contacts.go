package cli

import (
	"fmt"
	"os"

	"github.com/lazypower/bestfriend/internal/contacts"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.vcf>",
	Short: "Import friends from a vCard file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	res, err := contacts.Decode(cmd.Context(), f, log)
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.CreateFriends(cmd.Context(), res.Friends); err != nil {
		return fmt.Errorf("import friends: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d friends", len(res.Friends))
	if res.Skipped > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), " (%d cards skipped)", res.Skipped)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
