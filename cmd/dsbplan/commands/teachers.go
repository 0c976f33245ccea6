package commands

import (
	"dsbplan-backend/internal/teachers"
	"dsbplan-backend/pkg/serviceutil"
	"dsbplan-backend/pkg/textutil"
	"fmt"
	"os"
	"sort"

	"github.com/antzucaro/matchr"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	teachersCmd.AddCommand(teachersListCmd)
	teachersCmd.AddCommand(teachersLookupCmd)
	rootCmd.AddCommand(teachersCmd)
}

var teachersCmd = &cobra.Command{
	Use:   "teachers",
	Short: "Inspects the teacher directory.",
}

func loadDirectory(cmd *cobra.Command) teachers.Directory {
	cfg := loadConfig(cmd)
	directory, err := teachers.LoadDirectory(cfg.TeacherDict, cfg.TeacherNameField)
	if err != nil {
		serviceutil.Fatal("failed to load teacher directory", err)
	}
	return directory
}

var teachersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Prints every code of the teacher directory with its display name.",
	Run: func(cmd *cobra.Command, args []string) {
		directory := loadDirectory(cmd)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Code", "Name"})
		for _, code := range directory.Codes() {
			name, _ := directory.Lookup(code)
			t.AppendRow(table.Row{code, name})
		}
		t.AppendFooter(table.Row{"Total", directory.Len()})
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

type suggestion struct {
	code       string
	name       string
	similarity float64
}

const minSimilarity = 0.7

// suggest returns the entries whose code or name is similar to query, best first.
func suggest(directory teachers.Directory, query string, limit int) []suggestion {
	query = textutil.NormalizeName(query)

	var out []suggestion
	for _, code := range directory.Codes() {
		name, _ := directory.Lookup(code)
		similarity := max(
			matchr.JaroWinkler(query, textutil.NormalizeName(code), false),
			matchr.JaroWinkler(query, textutil.NormalizeName(name), false),
		)
		if similarity < minSimilarity {
			continue
		}
		out = append(out, suggestion{code: code, name: name, similarity: similarity})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].similarity > out[j].similarity
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

var teachersLookupCmd = &cobra.Command{
	Use:   "lookup <code>",
	Short: "Prints the display name of a code, or similar entries if it is unknown.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		directory := loadDirectory(cmd)

		name, ok := directory.Lookup(args[0])
		if ok {
			fmt.Println(name)
			return
		}

		suggestions := suggest(directory, args[0], 5)
		if len(suggestions) == 0 {
			fmt.Fprintf(os.Stderr, "%s is not in the teacher directory\n", args[0])
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "%s is not in the teacher directory, did you mean:\n", args[0])
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Code", "Name", "Similarity"})
		for _, s := range suggestions {
			t.AppendRow(table.Row{s.code, s.name, fmt.Sprintf("%.2f", s.similarity)})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
		os.Exit(1)
	},
}
