package cmd

import (
	"github.com/mj1618/terminator-agent/internal/catalog"
	"github.com/mj1618/terminator-agent/internal/model"
	"github.com/mj1618/terminator-agent/internal/output"
	"github.com/mj1618/terminator-agent/internal/platform"
	"github.com/spf13/cobra"
)

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List open windows",
	Long:  "List top-level windows with their app name, title, PID and focus state.",
	Args:  cobra.NoArgs,
	RunE:  runWindows,
}

var aliasesCmd = &cobra.Command{
	Use:   "aliases",
	Short: "List application aliases",
	Long:  "List the alias table: executable path, window title and whether the path exists on disk.",
	Args:  cobra.NoArgs,
	RunE:  runAliases,
}

func init() {
	rootCmd.AddCommand(windowsCmd)
	windowsCmd.Flags().Int("pid", 0, "Filter windows by PID")
	windowsCmd.Flags().String("app", "", "Filter windows by app name")
	windowsCmd.Flags().String("title", "", "Filter windows by title substring")

	rootCmd.AddCommand(aliasesCmd)
	aliasesCmd.Flags().Bool("resolve", false, "Show what each alias resolves to right now")
}

func runWindows(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rt.Close()

	provider, err := requireProvider(rt)
	if err != nil {
		return err
	}

	pid, _ := cmd.Flags().GetInt("pid")
	appName, _ := cmd.Flags().GetString("app")
	title, _ := cmd.Flags().GetString("title")

	windows, err := provider.WindowManager.ListWindows(platform.ListOptions{PID: pid, App: appName})
	if err != nil {
		return err
	}
	return output.Print(filterByTitle(windows, title))
}

func filterByTitle(windows []model.Window, title string) []model.Window {
	out := []model.Window{}
	for _, w := range windows {
		if title == "" || platform.TitleMatches(w.Title, title) {
			out = append(out, w)
		}
	}
	return out
}

// aliasEntry is the output row of `aliases --resolve`.
type aliasEntry struct {
	catalog.Entry `yaml:",inline"`
	Resolves      string         `yaml:"resolves"         json:"resolves"`
	Source        catalog.Source `yaml:"source"           json:"source"`
	Browser       bool           `yaml:"browser,omitempty" json:"browser,omitempty"`
	Editor        bool           `yaml:"editor,omitempty" json:"editor,omitempty"`
}

func runAliases(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cat := cfg.Catalog()

	if resolve, _ := cmd.Flags().GetBool("resolve"); !resolve {
		return output.Print(cat.Entries())
	}
	return output.Print(resolveAliases(cat))
}

func resolveAliases(cat *catalog.Catalog) []aliasEntry {
	var rows []aliasEntry
	for _, e := range cat.Entries() {
		res := cat.Resolve(e.Alias)
		rows = append(rows, aliasEntry{
			Entry:    e,
			Resolves: res.Command,
			Source:   res.Source,
			Browser:  cat.IsBrowser(e.Alias),
			Editor:   cat.IsEditor(e.Alias),
		})
	}
	return rows
}
