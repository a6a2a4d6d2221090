// ABOUTME: Categories commands for bi-admin
// ABOUTME: Browses, searches, adds and renames business and product categories

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/NikhilRakesh/Bi-Admin/internal/client"
)

var (
	categoryKind   string
	categoryLevel  string
	categoryParent int
	categoriesAll  bool
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"cats"},
	Short:   "Manage business and product categories",
	Long: `Manage the category trees. Business and product categories are separate
trees (--kind); each main category owns a list of sub categories.`,
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List main categories",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exit(runCategoriesList(ctx, os.Stdout, categoryKind, 0, categoriesAll))
	},
}

var categoriesSubsCmd = &cobra.Command{
	Use:   "subs <parent-id>",
	Short: "List the sub categories of a main category",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		parent, err := parseID(args[0], "parent id")
		if err != nil {
			exit(fail(os.Stdout, err))
		}
		exit(runCategoriesList(ctx, os.Stdout, categoryKind, parent, categoriesAll))
	},
}

var categoriesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search categories by name",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exit(runCategoriesSearch(ctx, os.Stdout, categoryKind, categoryLevel, strings.Join(args, " ")))
	},
}

var categoriesAddCmd = &cobra.Command{
	Use:   "add <name>[,<name>...]",
	Short: "Add main categories, or sub categories with --parent",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exit(runCategoriesAdd(ctx, os.Stdout, categoryKind, categoryParent, client.SplitNames(strings.Join(args, ","))))
	},
}

var categoriesRenameCmd = &cobra.Command{
	Use:   "rename <id> <new-name>",
	Short: "Rename a category",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exit(runCategoriesRename(ctx, os.Stdout, categoryLevel, args[0], strings.Join(args[1:], " ")))
	},
}

func init() {
	categoriesCmd.PersistentFlags().StringVar(&categoryKind, "kind", "business", "Category tree: business or product")
	categoriesListCmd.Flags().BoolVar(&categoriesAll, "all", false, "Fetch every page")
	categoriesSubsCmd.Flags().BoolVar(&categoriesAll, "all", false, "Fetch every page")
	categoriesSearchCmd.Flags().StringVar(&categoryLevel, "level", "main", "Search main or sub categories")
	categoriesRenameCmd.Flags().StringVar(&categoryLevel, "level", "main", "Rename a main or sub category")
	categoriesAddCmd.Flags().IntVar(&categoryParent, "parent", 0, "Add sub categories under this main category id")

	categoriesCmd.AddCommand(categoriesListCmd, categoriesSubsCmd, categoriesSearchCmd, categoriesAddCmd, categoriesRenameCmd)
	rootCmd.AddCommand(categoriesCmd)
}

// runCategoriesList lists main categories, or sub categories when parent > 0
func runCategoriesList(ctx context.Context, w io.Writer, rawKind string, parent int, all bool) int {
	kind, err := client.ParseCategoryKind(rawKind)
	if err != nil {
		return fail(w, err)
	}
	c, err := authedClient()
	if err != nil {
		return fail(w, err)
	}

	level := client.LevelMain
	var list *client.CategoryList
	if parent > 0 {
		level = client.LevelSub
		list, err = c.ListSubCategories(ctx, kind, parent)
	} else {
		list, err = c.ListCategories(ctx, kind)
	}
	if err != nil {
		return fail(w, err)
	}
	if all {
		list.Results, err = client.Collect(ctx, c, list.Page, 0)
		if err != nil {
			return fail(w, err)
		}
		list.Links = client.Links{}
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(list))
	} else {
		fmt.Fprintln(w, formatCategoriesHuman(kind, level, list))
	}
	return 0
}

// runCategoriesSearch searches one level of a tree and returns exit code
func runCategoriesSearch(ctx context.Context, w io.Writer, rawKind, rawLevel, q string) int {
	kind, err := client.ParseCategoryKind(rawKind)
	if err != nil {
		return fail(w, err)
	}
	level, err := client.ParseCategoryLevel(rawLevel)
	if err != nil {
		return fail(w, err)
	}
	c, err := authedClient()
	if err != nil {
		return fail(w, err)
	}

	list, err := c.SearchCategories(ctx, kind, level, q)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(list.Results))
		return 0
	}
	if len(list.Results) == 0 {
		fmt.Fprintf(w, "No %s categories match %q\n", kind, q)
		return 0
	}
	fmt.Fprintln(w, categoriesTable(level, list.Results))
	return 0
}

// runCategoriesAdd creates categories and returns exit code
func runCategoriesAdd(ctx context.Context, w io.Writer, rawKind string, parent int, names []string) int {
	kind, err := client.ParseCategoryKind(rawKind)
	if err != nil {
		return fail(w, err)
	}
	c, err := authedClient()
	if err != nil {
		return fail(w, err)
	}

	if parent > 0 {
		err = c.AddSubCategories(ctx, kind, parent, names)
	} else {
		err = c.AddCategories(ctx, kind, names)
	}
	if err != nil {
		return fail(w, err)
	}

	where := "main"
	if parent > 0 {
		where = fmt.Sprintf("sub (under %d)", parent)
	}
	fmt.Fprintf(w, "Added %d %s %s categories: %s\n", len(names), kind, where, strings.Join(names, ", "))
	return 0
}

// runCategoriesRename renames a category and returns exit code
func runCategoriesRename(ctx context.Context, w io.Writer, rawLevel, rawID, name string) int {
	level, err := client.ParseCategoryLevel(rawLevel)
	if err != nil {
		return fail(w, err)
	}
	id, err := parseID(rawID, "category id")
	if err != nil {
		return fail(w, err)
	}
	c, err := authedClient()
	if err != nil {
		return fail(w, err)
	}

	if err := c.RenameCategory(ctx, level, id, name); err != nil {
		return fail(w, err)
	}
	fmt.Fprintf(w, "Renamed %s category %d to %s\n", level, id, strings.TrimSpace(name))
	return 0
}

// formatCategoriesHuman formats a category listing with tree totals
func formatCategoriesHuman(kind client.CategoryKind, level client.CategoryLevel, list *client.CategoryList) string {
	var summary string
	if level == client.LevelMain {
		summary = fmt.Sprintf("%s categories: %d main, %d sub", titleCase(string(kind)), list.TotalMain, list.TotalSub)
	} else {
		summary = fmt.Sprintf("%s sub categories: %d", titleCase(string(kind)), list.Count)
	}
	if len(list.Results) == 0 {
		return summary + "\nNo categories found."
	}
	return summary + "\n" + categoriesTable(level, list.Results) + "\n" +
		pageFooter(len(list.Results), list.Count, list.HasNext())
}

func categoriesTable(level client.CategoryLevel, cats []client.Category) string {
	if level == client.LevelSub {
		tw := newTable("ID", "Name", "Parent", "Mapped")
		for _, cat := range cats {
			tw.AppendRow([]any{cat.ID, cat.Name, cat.ParentID, yesNo(cat.Mapped)})
		}
		return tw.Render()
	}
	tw := newTable("ID", "Name", "Sub categories")
	for _, cat := range cats {
		tw.AppendRow([]any{cat.ID, cat.Name, cat.SubCount})
	}
	return tw.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
