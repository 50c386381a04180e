package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"philcali.me/foodrecipes/internal/data"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func writeRecipeTable(w io.Writer, recipes []data.Recipe) error {
	tw := newTabWriter(w)
	tw.writef("ID\tTITLE\tPUBLISHER\tRANK\n")
	for i := range recipes {
		tw.writef("%s\t%s\t%s\t%.1f\n",
			recipes[i].RecipeID,
			truncate(recipes[i].Title, 50),
			recipes[i].Publisher,
			recipes[i].SocialRank,
		)
	}
	return tw.finish()
}

func printRecipeTable(recipes []data.Recipe) error {
	return writeRecipeTable(os.Stdout, recipes)
}

func writeRecipeDetail(w io.Writer, r *data.Recipe) error {
	tw := newTabWriter(w)
	tw.writef("ID:\t%s\n", r.RecipeID)
	tw.writef("Title:\t%s\n", r.Title)
	tw.writef("Publisher:\t%s\n", r.Publisher)
	tw.writef("Rank:\t%.1f\n", r.SocialRank)
	if r.SourceURL != "" {
		tw.writef("Source:\t%s\n", r.SourceURL)
	}
	if r.ImageURL != "" {
		tw.writef("Image:\t%s\n", r.ImageURL)
	}
	tw.writef("Ingredients:\t%d\n", len(r.Ingredients))
	for _, ingredient := range r.Ingredients {
		tw.writef("\t- %s\n", ingredient)
	}
	return tw.finish()
}

func printRecipeDetail(r *data.Recipe) error {
	return writeRecipeDetail(os.Stdout, r)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
