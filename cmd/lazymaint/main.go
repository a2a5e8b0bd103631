package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lazymaint/internal/app"
	"lazymaint/internal/config"
	"lazymaint/internal/host"
	"lazymaint/internal/maint"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer
// a.Close(). operation tags log lines with the CLI command being run.
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// confirmer returns the prompt to use: the console prompt normally, or
// an auto-accepting one when --yes was passed.
func confirmer(cmd *cobra.Command) maint.ConfirmPrompt {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return autoConfirm{}
	}
	return host.ConsolePrompt{}
}

// autoConfirm accepts every prompt (--yes).
type autoConfirm struct{}

func (autoConfirm) Confirm(string, string) (bool, error) { return true, nil }

// report prints an operation result and sets the process exit code for
// failures.
func report(result maint.OpResult) error {
	fmt.Println(result.Summary())
	if result.Outcome == maint.Failed {
		return fmt.Errorf("operation failed")
	}
	return nil
}

var rootCmd = &cobra.Command{
	Use:           "lazymaint",
	Short:         "Maintenance tool for a media-center configuration tree",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["home"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Home: %s\n", cfg.Home)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Home:             %s\n", cfg.Home)
		fmt.Printf("Addon ID:         %s\n", cfg.AddonID)
		fmt.Printf("Log name:         %s\n", cfg.LogName)
		fmt.Printf("Auto clean (MiB): %d\n", cfg.AutoCleanMiB)
		for _, d := range cfg.Destinations {
			fmt.Printf("Destination:      %s (%s)\n", d.Name, d.Type)
		}
		return nil
	},
}

// clean command
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clear temp and packages caches, trim thumbnails to budget",
	RunE: func(cmd *cobra.Command, args []string) error {
		startup, _ := cmd.Flags().GetBool("startup")

		a, err := newApp("Clean")
		if err != nil {
			return err
		}
		defer a.Close()

		if startup {
			// Give the host time to finish initializing before churning
			// its caches.
			grace := a.Config().StartupGraceSeconds
			if grace > 0 {
				time.Sleep(time.Duration(grace) * time.Second)
			}
		}

		return report(a.Clean(startup))
	},
}

// hard-clean command
var hardCleanCmd = &cobra.Command{
	Use:   "hard-clean",
	Short: "Completely clear temp, packages, thumbnails and the texture cache database",
	Long: "Completely clears the Temp, Packages and Thumbnails folders and deletes the\n" +
		"texture cache database. The host is force-closed afterwards so it rebuilds\n" +
		"its texture cache from scratch.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("HardClean")
		if err != nil {
			return err
		}
		defer a.Close()

		ok, err := confirmer(cmd).Confirm("Hard Clean",
			"This is a destructive action! It will completely clear Temp, Thumbnails,\n"+
				"Packages and delete the texture cache database.")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		progress := host.NewConsoleProgress("Hard Clean")
		defer progress.Close()
		return report(a.HardClean(progress))
	},
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a backup archive of addons, userdata and media",
	Long: "Creates a ZIP backup containing all installed addons, userdata (settings,\n" +
		"databases, favorites) and media folder contents. Large cache folders\n" +
		"(Thumbnails, Packages, Temp and the texture cache database) are excluded to\n" +
		"keep the backup size manageable.",
	RunE: func(cmd *cobra.Command, args []string) error {
		destStr, _ := cmd.Flags().GetString("dest")
		name, _ := cmd.Flags().GetString("name")

		a, err := newApp("Backup")
		if err != nil {
			return err
		}
		defer a.Close()

		progress := host.NewConsoleProgress("Backup")
		defer progress.Close()

		result, err := a.Backup(destStr, name, confirmer(cmd), progress)
		if err != nil {
			return err
		}
		return report(result)
	},
}

// restore command
var restoreCmd = &cobra.Command{
	Use:   "restore SOURCE",
	Short: "Restore the configuration tree from a backup archive",
	Long: "DANGER: this overwrites your current setup! The current addons, settings\n" +
		"and data are wiped and replaced by the backup contents, then the host is\n" +
		"force-closed to apply the changes.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Restore")
		if err != nil {
			return err
		}
		defer a.Close()

		ok, err := confirmer(cmd).Confirm("Confirm Restore",
			"DANGER: This will overwrite everything! Your current addons, settings\n"+
				"and data will be deleted.")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		progress := host.NewConsoleProgress("Restore")
		defer progress.Close()

		result, err := a.Restore(args[0], progress)
		if err != nil {
			return err
		}
		return report(result)
	},
}

// reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Factory reset: wipe userdata and all addons except this tool",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Reset")
		if err != nil {
			return err
		}
		defer a.Close()

		ok, err := confirmer(cmd).Confirm("Confirm Fresh Start",
			"Are you absolutely sure? This will delete all userdata and remove all\n"+
				"addons. The host will be reset to a fresh state.")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		progress := host.NewConsoleProgress("Fresh Start")
		defer progress.Close()
		return report(a.Reset(progress))
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View maintenance operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("History")
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.History(limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No maintenance operations recorded.")
			return nil
		}

		for _, e := range entries {
			duration := ""
			if !e.FinishedAt.IsZero() {
				duration = e.FinishedAt.Sub(e.StartedAt).Truncate(time.Millisecond).String()
			}
			fmt.Printf("%s  %-10s  %s  %-10s  %s\n",
				e.ID[:8],
				e.Operation,
				e.StartedAt.Local().Format("2006-01-02 15:04:05"),
				e.Status,
				duration,
			)
		}
		return nil
	},
}

// log command
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Manage the host log file",
}

var logReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Print the host log",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ReadLog")
		if err != nil {
			return err
		}
		defer a.Close()

		contents, err := a.ReadHostLog()
		if err != nil {
			return err
		}
		fmt.Print(contents)
		return nil
	},
}

var logExportCmd = &cobra.Command{
	Use:   "export DEST",
	Short: "Copy the host log to a destination",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ExportLog")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ExportHostLog(args[0]); err != nil {
			return err
		}
		fmt.Println("Log exported.")
		return nil
	},
}

var logClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Truncate the host log",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ClearLog")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ClearHostLog(); err != nil {
			return err
		}
		fmt.Println("Log cleared.")
		return nil
	},
}

var logUploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload the host log to the configured paste service",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("UploadLog")
		if err != nil {
			return err
		}
		defer a.Close()

		ok, err := confirmer(cmd).Confirm("Upload Log",
			"Upload the host log to a public paste service?")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		url, err := a.UploadHostLog()
		if err != nil {
			return err
		}
		fmt.Printf("Log uploaded: %s\n", url)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configListCmd)

	cleanCmd.Flags().Bool("startup", false, "run silently after the startup grace delay")

	hardCleanCmd.Flags().Bool("yes", false, "skip the confirmation prompt")

	backupCmd.Flags().String("dest", "", "destination: directory path, configured name, or s3:// URL")
	backupCmd.Flags().String("name", "", "archive name (default: timestamped)")
	backupCmd.Flags().Bool("yes", false, "overwrite an existing archive without asking")
	backupCmd.MarkFlagRequired("dest")

	restoreCmd.Flags().Bool("yes", false, "skip the confirmation prompt")

	resetCmd.Flags().Bool("yes", false, "skip the confirmation prompt")

	historyCmd.Flags().Int("limit", 20, "maximum entries to show")

	logCmd.AddCommand(logReadCmd, logExportCmd, logClearCmd, logUploadCmd)

	rootCmd.AddCommand(configCmd, cleanCmd, hardCleanCmd, backupCmd, restoreCmd, resetCmd, historyCmd, logCmd)
}
