package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"apidoc/config"
	"apidoc/internal/adapter/store"
	"apidoc/internal/domain"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <package> [class]",
	Short: "Show the stored model of a package or class",
	Long: `Show the documentation model produced by the last build.

With only a package, prints the package index: groups and their classes.
With a class, prints the class model: bases, listings and documented members.

Examples:
  apidoc show core
  apidoc show core QgsMapLayer
  apidoc show core QgsMapLayer --json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	dbPath := cfg.ModelDBPath(GetRootDir())
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("no model at %s (run 'apidoc build' first)", dbPath)
	}

	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open model store: %w", err)
	}
	defer st.Close()

	warnings, err := modelWarnings(st, cfg)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		slog.Warn(w)
	}

	pkg := args[0]
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		index, err := st.GetPackage(pkg)
		if err != nil {
			return notFound(err, "package", pkg)
		}
		if showJSON {
			return writeJSON(out, index)
		}
		printPackage(out, index)
		return nil
	}

	model, err := st.GetClass(pkg, args[1])
	if err != nil {
		return notFound(err, "class", pkg+"."+args[1])
	}
	if showJSON {
		return writeJSON(out, model)
	}
	printClass(out, model)
	return nil
}

// modelWarnings reports why the stored model may not match a fresh build.
func modelWarnings(st *store.BoltStore, cfg *config.Config) ([]string, error) {
	var warnings []string

	staleness, err := st.CheckStaleness(cfg)
	if err != nil {
		return nil, err
	}
	if staleness.Stale {
		warnings = append(warnings, "stored model may be stale: "+staleness.Reason)
	}

	if _, err := st.GetBuildInfo(); errors.Is(err, domain.ErrNotFound) {
		warnings = append(warnings, "stored model is incomplete: last build did not finish")
	} else if err != nil {
		return nil, err
	}
	return warnings, nil
}

func notFound(err error, what, name string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s %s not in the model", what, name)
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printPackage(w io.Writer, index domain.PackageIndex) {
	fmt.Fprintf(w, "Package %s\n", index.Package)
	for _, g := range index.Groups {
		fmt.Fprintf(w, "\n%s  (#%s)\n", g.Title, g.Anchor)
		fmt.Fprintln(w, strings.Repeat("-", len(g.Title)))
		for _, row := range g.Rows {
			fmt.Fprintf(w, "  %-40s %s\n", row.Name, row.Summary)
		}
	}
}

func printClass(w io.Writer, m domain.ClassModel) {
	fmt.Fprintln(w, m.QualifiedName)
	fmt.Fprintln(w, strings.Repeat("=", len(m.QualifiedName)))
	if m.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", m.Summary)
	}

	printRows(w, "Bases", m.Bases)
	printRows(w, "Subclasses", m.Subclasses)

	for _, l := range m.Listings {
		fmt.Fprintf(w, "\n%s: %s\n", l.Category, strings.Join(l.Names, ", "))
	}

	for _, c := range m.Constructors {
		printCallable(w, c)
	}
	for _, c := range m.Members {
		printCallable(w, c)
	}
}

func printRows(w io.Writer, title string, rows []domain.ClassRow) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, r := range rows {
		fmt.Fprintf(w, "  %-40s %s\n", r.Name, r.Summary)
	}
}

func printCallable(w io.Writer, c domain.CallableDoc) {
	for _, ov := range c.Overloads {
		header := ov.SignatureText
		if header == "" {
			header = c.Name
		}
		if ov.NoIndex {
			header += "  [noindex]"
		}
		fmt.Fprintf(w, "\n[%s] %s\n", c.Kind, header)
		for _, line := range ov.Description {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
}
