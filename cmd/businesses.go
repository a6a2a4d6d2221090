// ABOUTME: Businesses commands for bi-admin
// ABOUTME: Registers businesses for users, edits them, uploads images and starts plan payments

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/NikhilRakesh/Bi-Admin/internal/client"
)

var (
	newBusiness client.NewBusiness
	editFields  []string
	payPlanID   int
)

var businessesCmd = &cobra.Command{
	Use:     "businesses",
	Aliases: []string{"business", "biz"},
	Short:   "Manage vendor businesses",
}

var businessesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a business for an existing user",
	Long: `Register a business for an existing user. The form is validated before
it is sent: name, type, locality, city, state, a 6 digit pincode and a valid
WhatsApp number are required.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exit(runBusinessesAdd(ctx, os.Stdout, newBusiness))
	},
}

var businessesEditCmd = &cobra.Command{
	Use:   "edit <business-id>",
	Short: "Update business fields",
	Long:  `Update business fields, given as --set field=value (for example --set name="Sharma Sweets").`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exit(runBusinessesEdit(ctx, os.Stdout, args[0], editFields))
	},
}

var businessesImageCmd = &cobra.Command{
	Use:   "upload-image <business-id> <file>",
	Short: "Replace the business profile image (max 1 MB)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exit(runBusinessesImage(ctx, os.Stdout, args[0], args[1]))
	},
}

var businessesPayCmd = &cobra.Command{
	Use:   "pay <business-id>",
	Short: "Start a plan payment and print the checkout URL",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exit(runBusinessesPay(ctx, os.Stdout, args[0], payPlanID))
	},
}

func init() {
	f := businessesAddCmd.Flags()
	f.IntVar(&newBusiness.UserID, "user-id", 0, "Owner user id")
	f.StringVar(&newBusiness.Name, "name", "", "Business name")
	f.StringVar(&newBusiness.Description, "description", "", "Description")
	f.StringVar(&newBusiness.BusinessType, "type", client.TypeService, "Business type: "+strings.Join(client.BusinessTypes, ", "))
	f.StringVar(&newBusiness.ManagerName, "manager", "", "Manager name")
	f.StringVar(&newBusiness.BuildingName, "building", "", "Building name")
	f.StringVar(&newBusiness.Landmark, "landmark", "", "Landmark")
	f.StringVar(&newBusiness.Locality, "locality", "", "Locality")
	f.StringVar(&newBusiness.District, "district", "", "District")
	f.StringVar(&newBusiness.City, "city", "", "City")
	f.StringVar(&newBusiness.State, "state", "", "State")
	f.StringVar(&newBusiness.Pincode, "pincode", "", "6 digit pincode")
	f.StringVar(&newBusiness.WhatsappNumber, "whatsapp", "", "WhatsApp number")
	f.StringVar(&newBusiness.Email, "email", "", "Contact email")
	f.StringVar(&newBusiness.InchargeNumber, "incharge", "", "Incharge phone number")

	businessesEditCmd.Flags().StringArrayVar(&editFields, "set", nil, "field=value to update (repeatable)")
	businessesPayCmd.Flags().IntVar(&payPlanID, "plan", 0, "Plan variant id")

	businessesCmd.AddCommand(businessesAddCmd, businessesEditCmd, businessesImageCmd, businessesPayCmd)
	rootCmd.AddCommand(businessesCmd)
}

// runBusinessesAdd registers a business and returns exit code
func runBusinessesAdd(ctx context.Context, w io.Writer, b client.NewBusiness) int {
	if err := b.Validate(); err != nil {
		return fail(w, err)
	}
	c, err := authedClient()
	if err != nil {
		return fail(w, err)
	}

	id, err := c.AddBusiness(ctx, b)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(map[string]int{"id": id}))
		return 0
	}
	fmt.Fprintf(w, "Registered %s (business id %d)\n", b.Name, id)
	fmt.Fprintf(w, "Next: bi-admin businesses upload-image %d <file>, bi-admin businesses pay %d --plan <id>\n", id, id)
	return 0
}

// runBusinessesEdit applies field updates and returns exit code
func runBusinessesEdit(ctx context.Context, w io.Writer, rawID string, sets []string) int {
	id, err := parseID(rawID, "business id")
	if err != nil {
		return fail(w, err)
	}
	fields, err := parseFieldSets(sets)
	if err != nil {
		return fail(w, err)
	}
	c, err := authedClient()
	if err != nil {
		return fail(w, err)
	}

	if err := c.EditBusiness(ctx, id, fields); err != nil {
		return fail(w, err)
	}
	fmt.Fprintf(w, "Updated business %d\n", id)
	return 0
}

// runBusinessesImage uploads a profile image and returns exit code
func runBusinessesImage(ctx context.Context, w io.Writer, rawID, path string) int {
	id, err := parseID(rawID, "business id")
	if err != nil {
		return fail(w, err)
	}
	c, err := authedClient()
	if err != nil {
		return fail(w, err)
	}

	if err := c.UploadBusinessImage(ctx, id, path); err != nil {
		return fail(w, err)
	}
	fmt.Fprintf(w, "Uploaded image for business %d\n", id)
	return 0
}

// runBusinessesPay starts a plan payment and returns exit code
func runBusinessesPay(ctx context.Context, w io.Writer, rawID string, planID int) int {
	id, err := parseID(rawID, "business id")
	if err != nil {
		return fail(w, err)
	}
	c, err := authedClient()
	if err != nil {
		return fail(w, err)
	}

	redirect, err := c.InitiatePayment(ctx, planID, id)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(map[string]string{"redirect_url": redirect}))
		return 0
	}
	fmt.Fprintf(w, "Complete the payment at:\n%s\n", redirect)
	return 0
}

func parseID(s, what string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return id, nil
}

// parseFieldSets turns field=value pairs into a partial update
func parseFieldSets(sets []string) (map[string]any, error) {
	fields := make(map[string]any, len(sets))
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q (want field=value)", s)
		}
		fields[key] = value
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("nothing to update, pass at least one --set field=value")
	}
	return fields, nil
}
