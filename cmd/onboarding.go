// ABOUTME: Business onboarding commands: category assignment, service and product listings
// ABOUTME: Mirrors the steps a vendor takes after a business is registered

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/NikhilRakesh/Bi-Admin/internal/client"
)

var (
	onboardMainID       int
	onboardSubIDs       []int
	newService          client.NewService
	serviceCategoryName string
	newProduct          client.NewProduct
	productSearch       string
)

var businessesCategoriesCmd = &cobra.Command{
	Use:   "categories <business-id>",
	Short: "Assign a business to its main and sub categories",
	Long: `Assign a business to its main and sub categories.

With no flags the popular main categories are listed. --main files the
business under a main category and lists the sub categories it offers;
--sub files it under those sub categories.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exit(runBusinessesCategories(ctx, os.Stdout, args[0], onboardMainID, onboardSubIDs))
	},
}

var businessesServicesCmd = &cobra.Command{
	Use:   "services <business-id>",
	Short: "List a service for a business",
	Long: `List a service for a business. --category creates a new service category
for it; --category-id reuses an existing one. At least one image (max 1 MB,
at most 5) is required.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exit(runBusinessesServices(ctx, os.Stdout, args[0], serviceCategoryName, newService))
	},
}

var businessesProductsCmd = &cobra.Command{
	Use:   "products <business-id>",
	Short: "List a product for a business",
	Long: `List a product for a business under a product category. Use --search to
find the category id first. At least one image (max 1 MB, at most 5) is required.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exit(runBusinessesProducts(ctx, os.Stdout, args[0], productSearch, newProduct))
	},
}

func init() {
	cf := businessesCategoriesCmd.Flags()
	cf.IntVar(&onboardMainID, "main", 0, "Main category id")
	cf.IntSliceVar(&onboardSubIDs, "sub", nil, "Sub category ids (comma separated)")

	sf := businessesServicesCmd.Flags()
	sf.StringVar(&serviceCategoryName, "category", "", "Name of a new service category")
	sf.IntVar(&newService.CategoryID, "category-id", 0, "Existing service category id")
	listingFlags(sf, &newService.Listing)

	pf := businessesProductsCmd.Flags()
	pf.StringVar(&productSearch, "search", "", "Search product categories instead of listing a product")
	pf.IntVar(&newProduct.SubCategoryID, "category-id", 0, "Product category id")
	listingFlags(pf, &newProduct.Listing)

	businessesCmd.AddCommand(businessesCategoriesCmd, businessesServicesCmd, businessesProductsCmd)
}

func listingFlags(f *pflag.FlagSet, l *client.Listing) {
	f.StringVar(&l.Name, "name", "", "Name")
	f.StringVar(&l.Price, "price", "", "Price in rupees")
	f.StringVar(&l.Description, "description", "", "Description")
	f.StringArrayVar(&l.Images, "image", nil, "Image file (repeatable)")
}

// runBusinessesCategories lists or assigns business categories and returns exit code
func runBusinessesCategories(ctx context.Context, w io.Writer, rawID string, mainID int, subIDs []int) int {
	id, err := parseID(rawID, "business id")
	if err != nil {
		return fail(w, err)
	}
	c, err := authedClient()
	if err != nil {
		return fail(w, err)
	}

	if mainID == 0 && len(subIDs) == 0 {
		cats, err := c.PopularCategories(ctx)
		if err != nil {
			return fail(w, err)
		}
		if IsJSONOutput() {
			fmt.Fprintln(w, formatJSON(cats))
			return 0
		}
		fmt.Fprintln(w, choicesTable("Popular categories", cats))
		fmt.Fprintf(w, "Pick one with: bi-admin businesses categories %d --main <id>\n", id)
		return 0
	}

	var choices []client.Category
	if mainID != 0 {
		if err := c.SetBusinessCategory(ctx, id, mainID); err != nil {
			return fail(w, err)
		}
		if !IsJSONOutput() {
			fmt.Fprintf(w, "Filed business %d under category %d\n", id, mainID)
		}
		if len(subIDs) == 0 {
			if choices, err = c.CategoryChoices(ctx, mainID); err != nil {
				return fail(w, err)
			}
		}
	}

	if len(subIDs) > 0 {
		if err := c.SetBusinessSubCategories(ctx, id, subIDs); err != nil {
			return fail(w, err)
		}
		if !IsJSONOutput() {
			fmt.Fprintf(w, "Filed business %d under %d sub categories\n", id, len(subIDs))
		}
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(map[string]any{
			"business":       id,
			"main":           mainID,
			"sub":            subIDs,
			"sub_categories": choices,
		}))
		return 0
	}
	if choices != nil {
		fmt.Fprintln(w, choicesTable("Sub categories", choices))
		fmt.Fprintf(w, "Pick them with: bi-admin businesses categories %d --sub <id>,<id>\n", id)
	}
	return 0
}

func choicesTable(title string, cats []client.Category) string {
	if len(cats) == 0 {
		return title + ": none"
	}
	tw := newTable("ID", "Name")
	for _, cat := range cats {
		tw.AppendRow([]any{cat.ID, cat.Name})
	}
	return title + "\n" + tw.Render()
}

// runBusinessesServices lists a service, creating its category when named,
// and returns exit code
func runBusinessesServices(ctx context.Context, w io.Writer, rawID, categoryName string, svc client.NewService) int {
	id, err := parseID(rawID, "business id")
	if err != nil {
		return fail(w, err)
	}
	svc.BusinessID = id
	if svc.CategoryID == 0 && categoryName == "" {
		return fail(w, errors.New("pass --category to create a service category or --category-id to reuse one"))
	}
	if err := svc.Listing.Validate(); err != nil {
		return fail(w, err)
	}
	c, err := authedClient()
	if err != nil {
		return fail(w, err)
	}

	if svc.CategoryID == 0 {
		if svc.CategoryID, err = c.AddServiceCategory(ctx, id, categoryName); err != nil {
			return fail(w, err)
		}
	}
	if err := c.AddService(ctx, svc); err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(map[string]any{"business": id, "category_id": svc.CategoryID, "name": svc.Name}))
		return 0
	}
	fmt.Fprintf(w, "Listed service %s for business %d (service category %d)\n", svc.Name, id, svc.CategoryID)
	return 0
}

// runBusinessesProducts lists a product, or searches product categories,
// and returns exit code
func runBusinessesProducts(ctx context.Context, w io.Writer, rawID, search string, p client.NewProduct) int {
	id, err := parseID(rawID, "business id")
	if err != nil {
		return fail(w, err)
	}
	if search == "" {
		p.BusinessID = id
		if err := p.Validate(); err != nil {
			return fail(w, err)
		}
	}
	c, err := authedClient()
	if err != nil {
		return fail(w, err)
	}

	if search != "" {
		cats, err := c.SearchProductCategories(ctx, search)
		if err != nil {
			return fail(w, err)
		}
		if IsJSONOutput() {
			fmt.Fprintln(w, formatJSON(cats))
			return 0
		}
		if len(cats) == 0 {
			fmt.Fprintf(w, "No product categories match %q\n", search)
			return 0
		}
		tw := newTable("ID", "Name")
		for _, cat := range cats {
			tw.AppendRow([]any{cat.ID, cat.Name})
		}
		fmt.Fprintln(w, tw.Render())
		return 0
	}

	if err := c.AddProduct(ctx, p); err != nil {
		return fail(w, err)
	}
	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(map[string]any{"business": id, "category_id": p.SubCategoryID, "name": p.Name}))
		return 0
	}
	fmt.Fprintf(w, "Listed product %s for business %d\n", p.Name, id)
	return 0
}
