package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aizetachan/ui-forge-sub001/pkg/model"
)

const maxWidth = 80

// printSummary prints one line per parse: counts and warnings.
func printSummary(w io.Writer, repo *model.RepositoryModel) {
	fmt.Fprintf(w, "%s: %d components, %d tokens, %d warnings\n",
		repo.Root, len(repo.Components), len(repo.Tokens), len(repo.Warnings))
}

// printRepository prints a human-readable model of the repository.
func printRepository(w io.Writer, repo *model.RepositoryModel) {
	printSummary(w, repo)
	if repo.ThemePath != "" {
		fmt.Fprintf(w, "Theme  %s\n", displayPath(repo.Root, repo.ThemePath))
	}
	for i := range repo.Components {
		fmt.Fprintln(w)
		printComponentHuman(w, repo.Root, &repo.Components[i])
	}

	if len(repo.Tokens) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tokens")
		nameW := 0
		for _, t := range repo.Tokens {
			nameW = max(nameW, len(t.Name))
		}
		for _, t := range repo.Tokens {
			fmt.Fprintf(w, "  --%-*s  %-10s  %s\n", nameW, t.Name, t.Type, t.Value)
		}
	}

	if len(repo.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Warnings")
		for _, warning := range repo.Warnings {
			fmt.Fprintf(w, "  ! %s\n", warning)
		}
	}
}

// printComponentHuman prints a human-readable component summary with paths
// relative to root.
func printComponentHuman(w io.Writer, root string, comp *model.Component) {
	fmt.Fprintf(w, "%s  [%s]\n", comp.Name, displayPath(root, comp.SourceFilePath))
	if comp.CSSModulePath != "" {
		fmt.Fprintf(w, "  styles: %s (%d rules)\n", displayPath(root, comp.CSSModulePath), len(comp.CSSRules))
	}

	fmt.Fprintln(w)
	printPropsSection(w, "Props", comp.PropDefs)

	fmt.Fprintln(w)
	if len(comp.Variants) == 0 {
		fmt.Fprintln(w, "Variants  (none)")
	} else {
		fmt.Fprintln(w, "Variants")
		for _, v := range comp.Variants {
			def := ""
			if v.IsDefault {
				def = "  (default)"
			}
			fmt.Fprintf(w, "  %-8s %-16s %s%s\n", v.Type, v.Name, v.CSSClass, def)
		}
	}

	if len(comp.StoryVariants) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Stories")
		for _, s := range comp.StoryVariants {
			if len(s.Args) == 0 {
				fmt.Fprintf(w, "  %s\n", s.Name)
				continue
			}
			args, _ := json.Marshal(s.Args)
			fmt.Fprintf(w, "  %s  %s\n", s.Name, args)
		}
	}
}

// printPropsSection renders the props table with dynamic column widths.
func printPropsSection(w io.Writer, title string, props []model.PropDef) {
	if len(props) == 0 {
		fmt.Fprintf(w, "%s  (none)\n", title)
		return
	}

	fmt.Fprintln(w, title)

	nameW := len("NAME")
	kindW := len("KIND")
	defW := len("DEFAULT")
	for _, p := range props {
		nameW = max(nameW, len(p.Name))
		kindW = max(kindW, len(p.Kind))
		defW = max(defW, len(defaultText(p.DefaultValue)))
	}

	sepLen := nameW + kindW + 5 + defW + 4
	fmt.Fprintf(w, "  %-*s  %-*s  %-3s  %-*s\n", nameW, "NAME", kindW, "KIND", "REQ", defW, "DEFAULT")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", sepLen))

	for _, p := range props {
		req := "no"
		if p.Required {
			req = "yes"
		}
		fmt.Fprintf(w, "  %-*s  %-*s  %-3s  %-*s\n",
			nameW, p.Name, kindW, p.Kind, req, defW, defaultText(p.DefaultValue))

		if p.Description != "" {
			fmt.Fprintf(w, "  %s  %s\n", strings.Repeat(" ", nameW), p.Description)
		}
		if len(p.Options) > 0 {
			options := strings.Join(p.Options, " | ")
			fmt.Fprintf(w, "  %s  options: %s\n", strings.Repeat(" ", nameW), wrapOptions(options, nameW+13))
		}
	}
}

// printMerged prints merged properties as declarations annotated with the
// selector that won.
func printMerged(w io.Writer, merged []model.MergedCSSProperty) {
	propW := 0
	for _, m := range merged {
		propW = max(propW, len(m.Property))
	}
	for _, m := range merged {
		source := m.Selector
		if m.ComputedOnly {
			source = "(computed)"
		}
		fmt.Fprintf(w, "%-*s  %s  /* %s */\n", propW+1, m.Property+":", m.Value.Raw, source)
	}
}

func displayPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return path
}

func defaultText(v any) string {
	if v == nil {
		return "—"
	}
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(v)
}

// wrapOptions wraps the options string if it exceeds maxWidth.
func wrapOptions(options string, indent int) string {
	if indent+len(options) <= maxWidth {
		return options
	}
	parts := strings.Split(options, " | ")
	var sb strings.Builder
	lineLen := indent
	for i, part := range parts {
		addition := len(part)
		if i > 0 {
			addition += 3 // " | "
		}
		if lineLen+addition > maxWidth && i > 0 {
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", indent))
			lineLen = indent
		}
		if i > 0 {
			sb.WriteString(" | ")
			lineLen += 3
		}
		sb.WriteString(part)
		lineLen += len(part)
	}
	return sb.String()
}
