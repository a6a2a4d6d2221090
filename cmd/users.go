// ABOUTME: Users commands for bi-admin
// ABOUTME: Lists, searches and creates directory users

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

	"github.com/NikhilRakesh/Bi-Admin/internal/client"
)

var (
	usersFilter  string
	usersAll     bool
	newUserName  string
	newUserPhone string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage directory users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Long:  `List users, optionally only vendors or customers. Shows the first page unless --all is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exit(runUsersList(ctx, os.Stdout, usersFilter, usersAll))
	},
}

var usersSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search users by name or phone",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exit(runUsersSearch(ctx, os.Stdout, strings.Join(args, " ")))
	},
}

var usersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exit(runUsersAdd(ctx, os.Stdout, client.NewUser{Name: newUserName, Phone: newUserPhone}))
	},
}

func init() {
	usersListCmd.Flags().StringVar(&usersFilter, "filter", "all", "Which users to list: all, vendors or customers")
	usersListCmd.Flags().BoolVar(&usersAll, "all", false, "Fetch every page")
	usersAddCmd.Flags().StringVar(&newUserName, "name", "", "Full name")
	usersAddCmd.Flags().StringVar(&newUserPhone, "phone", "", "Mobile number")

	usersCmd.AddCommand(usersListCmd, usersSearchCmd, usersAddCmd)
	rootCmd.AddCommand(usersCmd)
}

// runUsersList lists users and returns exit code
func runUsersList(ctx context.Context, w io.Writer, filter string, all bool) int {
	f, err := client.ParseUserFilter(filter)
	if err != nil {
		return fail(w, err)
	}
	c, err := authedClient()
	if err != nil {
		return fail(w, err)
	}

	list, err := c.ListUsers(ctx, f)
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
		fmt.Fprintln(w, formatUsersHuman(list))
	}
	return 0
}

// runUsersSearch searches users and returns exit code
func runUsersSearch(ctx context.Context, w io.Writer, q string) int {
	c, err := authedClient()
	if err != nil {
		return fail(w, err)
	}

	list, err := c.SearchUsers(ctx, q)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(list.Results))
		return 0
	}
	if len(list.Results) == 0 {
		fmt.Fprintf(w, "No users match %q\n", q)
		return 0
	}
	fmt.Fprintln(w, usersTable(list.Results))
	return 0
}

// runUsersAdd creates a user and returns exit code
func runUsersAdd(ctx context.Context, w io.Writer, u client.NewUser) int {
	c, err := authedClient()
	if err != nil {
		return fail(w, err)
	}

	detail, err := c.AddUser(ctx, u)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(map[string]string{"detail": detail}))
		return 0
	}
	if detail == "" {
		detail = "User created"
	}
	fmt.Fprintln(w, detail)
	return 0
}

// formatUsersHuman formats a user listing with totals
func formatUsersHuman(list *client.UserList) string {
	summary := fmt.Sprintf("Users: %d total, %d vendors, %d customers",
		list.TotalUsers, list.TotalVendors, list.TotalCustomers)
	if len(list.Results) == 0 {
		return summary + "\nNo users found."
	}
	return summary + "\n" + usersTable(list.Results) + "\n" +
		pageFooter(len(list.Results), list.Count, list.HasNext())
}

func usersTable(users []client.User) string {
	tw := newTable("ID", "Name", "Mobile", "Role", "Joined")
	for _, u := range users {
		mobile := u.MobileNumber
		if mobile == "" {
			mobile = "-"
		}
		tw.AppendRow([]any{u.ID, u.FirstName, mobile, u.Role(), u.Joined()})
	}
	return tw.Render()
}
