package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/filmdesk/filter"
	"github.com/s0up4200/filmdesk/sakila"
	"github.com/s0up4200/filmdesk/view"
)

var (
	sortFlag        string
	customerFilters sakila.CustomerFilters
	newCustomer     sakila.NewCustomer
	customerEdit    sakila.CustomerUpdate
	activeFlag      bool
)

// customersCmd groups the customer list commands
var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Browse, search and add customers",
}

var customersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of customers",
	Args:  cobra.NoArgs,
	RunE:  runCustomersList,
}

var customersSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search customers by id or name",
	Args:  cobra.NoArgs,
	RunE:  runCustomersSearch,
}

var customersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a customer",
	Args:  cobra.NoArgs,
	RunE:  runCustomersAdd,
}

// customerCmd groups the single-customer commands
var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Show, edit or delete a customer and return their rentals",
}

var customerShowCmd = &cobra.Command{
	Use:   "show <customer-id>",
	Short: "Show a customer with active rentals and rental history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("customer", args[0])
		if err != nil {
			return err
		}
		return showCustomer(cmd.Context(), id)
	},
}

var customerEditCmd = &cobra.Command{
	Use:   "edit <customer-id>",
	Short: "Edit a customer's details",
	Long:  `Edit a customer. Only the fields given as flags change; the rest keep their current values.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCustomerEdit,
}

var customerReturnCmd = &cobra.Command{
	Use:   "return <customer-id> <rental-id>",
	Short: "Mark an active rental as returned",
	Args:  cobra.ExactArgs(2),
	RunE:  runCustomerReturn,
}

var customerDeleteCmd = &cobra.Command{
	Use:   "delete <customer-id>",
	Short: "Delete a customer",
	Args:  cobra.ExactArgs(1),
	RunE:  runCustomerDelete,
}

func init() {
	rootCmd.AddCommand(customersCmd, customerCmd)
	customersCmd.AddCommand(customersListCmd, customersSearchCmd, customersAddCmd)
	customerCmd.AddCommand(customerShowCmd, customerEditCmd, customerReturnCmd, customerDeleteCmd)

	customersListCmd.Flags().StringVarP(&pageInput, "page", "p", "1", "page to show")
	customersListCmd.Flags().StringVar(&sortFlag, "sort", "", "sort the page by id, name, email or status; append :desc to reverse")
	addFilterFlags(customersListCmd)

	customersSearchCmd.Flags().StringVar(&customerFilters.CustomerID, "id", "", "exact customer id")
	customersSearchCmd.Flags().StringVar(&customerFilters.Name, "name", "", "name contains")
	addFilterFlags(customersSearchCmd)

	customersAddCmd.Flags().StringVar(&newCustomer.FirstName, "first", "", "first name (required)")
	customersAddCmd.Flags().StringVar(&newCustomer.LastName, "last", "", "last name (required)")
	customersAddCmd.Flags().StringVar(&newCustomer.Email, "email", "", "email address (required)")
	customersAddCmd.Flags().IntVar(&newCustomer.StoreID, "store", 0, "home store (default: server default)")

	f := customerEditCmd.Flags()
	f.StringVar(&customerEdit.FirstName, "first", "", "first name")
	f.StringVar(&customerEdit.LastName, "last", "", "last name")
	f.StringVar(&customerEdit.Email, "email", "", "email address")
	f.StringVar(&customerEdit.Address, "address", "", "street address")
	f.StringVar(&customerEdit.District, "district", "", "district")
	f.StringVar(&customerEdit.City, "city", "", "city")
	f.StringVar(&customerEdit.Country, "country", "", "country")
	f.StringVar(&customerEdit.Phone, "phone", "", "phone number")
	f.BoolVar(&activeFlag, "active", true, "whether the customer is active")
}

// parseSort reads "key" or "key:desc"
func parseSort(s string) (view.SortState, error) {
	if strings.TrimSpace(s) == "" {
		return view.SortState{}, nil
	}

	name, dir, _ := strings.Cut(s, ":")
	key, err := view.ParseSortKey(name)
	if err != nil {
		return view.SortState{}, err
	}
	switch strings.ToLower(dir) {
	case "", "asc":
		return view.SortState{Key: key, Direction: view.SortAsc}, nil
	case "desc":
		return view.SortState{Key: key, Direction: view.SortDesc}, nil
	default:
		return view.SortState{}, fmt.Errorf("invalid sort direction %q (want asc or desc)", dir)
	}
}

// applySort drives the header toggle until the requested state is reached
func applySort(customers *view.Customers, want view.SortState) {
	for range 3 {
		if customers.Snapshot().Sort == want {
			return
		}
		customers.ToggleSort(want.Key)
	}
}

func runCustomersList(cmd *cobra.Command, args []string) error {
	f, err := rowFilter()
	if err != nil {
		return err
	}
	sortState, err := parseSort(sortFlag)
	if err != nil {
		return err
	}

	customers := view.NewCustomers(client, viewSettings(), logger)
	defer customers.Close()

	ctx := cmd.Context()
	if err := customers.Load(ctx); err != nil {
		fmt.Print(formatter.FormatCustomerList(customers.Snapshot(), formatOptions()))
		return err
	}
	if strings.TrimSpace(pageInput) != "1" {
		if err := customers.JumpTo(ctx, pageInput); err != nil {
			return err
		}
	}
	applySort(customers, sortState)

	return printCustomers(customers.Snapshot(), f)
}

func runCustomersSearch(cmd *cobra.Command, args []string) error {
	f, err := rowFilter()
	if err != nil {
		return err
	}
	if customerFilters.IsEmpty() {
		return fmt.Errorf("give at least one of --id, --name")
	}

	customers := view.NewCustomers(client, viewSettings(), logger)
	defer customers.Close()

	if err := customers.Submit(cmd.Context(), customerFilters); err != nil {
		fmt.Print(formatter.FormatCustomerList(customers.Snapshot(), formatOptions()))
		return err
	}
	return printCustomers(customers.Snapshot(), f)
}

func printCustomers(snap view.CustomersSnapshot, f *filter.Filter) error {
	rows, err := filter.Apply(f, snap.Rows, filter.CustomerEnv)
	if err != nil {
		return err
	}
	snap.Rows = rows
	fmt.Print(formatter.FormatCustomerList(snap, formatOptions()))
	return nil
}

func runCustomersAdd(cmd *cobra.Command, args []string) error {
	customers := view.NewCustomers(client, viewSettings(), logger)
	defer customers.Close()

	ctx := cmd.Context()
	if err := customers.OpenAdd(); err != nil {
		return err
	}

	err := customers.AddCustomer(ctx, newCustomer)
	snap := customers.Snapshot()
	if snap.Add != nil && snap.Add.Error != "" {
		return errors.New(snap.Add.Error)
	}
	fmt.Print(formatter.FormatCustomerList(snap, formatOptions()))
	return err
}

func showCustomer(ctx context.Context, id int) error {
	detail := view.NewCustomerDetail(client, id, newConfirmer(), view.NavigatorFunc(func(string) {}), viewSettings(), logger)
	defer detail.Close()

	err := detail.Load(ctx)
	fmt.Print(formatter.FormatCustomer(detail.Snapshot()))
	return err
}

func runCustomerEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID("customer", args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	detail := view.NewCustomerDetail(client, id, newConfirmer(), view.NavigatorFunc(func(string) {}), viewSettings(), logger)
	defer detail.Close()

	if err := detail.Load(ctx); err != nil {
		fmt.Print(formatter.FormatCustomer(detail.Snapshot()))
		return err
	}
	if err := detail.OpenEdit(); err != nil {
		return err
	}

	fields := detail.Snapshot().Edit.Fields
	flags := cmd.Flags()
	override := func(name string, dst *string, value string) {
		if flags.Changed(name) {
			*dst = value
		}
	}
	override("first", &fields.FirstName, customerEdit.FirstName)
	override("last", &fields.LastName, customerEdit.LastName)
	override("email", &fields.Email, customerEdit.Email)
	override("address", &fields.Address, customerEdit.Address)
	override("district", &fields.District, customerEdit.District)
	override("city", &fields.City, customerEdit.City)
	override("country", &fields.Country, customerEdit.Country)
	override("phone", &fields.Phone, customerEdit.Phone)
	if flags.Changed("active") {
		active := sakila.Flag(activeFlag)
		fields.Active = &active
	}

	if err := detail.SubmitEdit(ctx, fields); err != nil {
		if snap := detail.Snapshot(); snap.Edit != nil && snap.Edit.Error != "" {
			return errors.New(snap.Edit.Error)
		}
		return err
	}
	fmt.Print(formatter.FormatCustomer(detail.Snapshot()))
	return nil
}

func runCustomerReturn(cmd *cobra.Command, args []string) error {
	id, err := parseID("customer", args[0])
	if err != nil {
		return err
	}
	rentalID, err := parseID("rental", args[1])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	detail := view.NewCustomerDetail(client, id, newConfirmer(), view.NavigatorFunc(func(string) {}), viewSettings(), logger)
	defer detail.Close()

	if err := detail.Load(ctx); err != nil {
		fmt.Print(formatter.FormatCustomer(detail.Snapshot()))
		return err
	}

	err = detail.ReturnRental(ctx, rentalID)
	switch {
	case errors.Is(err, view.ErrCancelled):
		logger.Info().Msg("Return cancelled")
		return nil
	case errors.Is(err, view.ErrControlDisabled):
		return fmt.Errorf("rental %d is not an active rental of customer %d", rentalID, id)
	}
	fmt.Print(formatter.FormatCustomer(detail.Snapshot()))
	return err
}

func runCustomerDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID("customer", args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	redirect := make(chan string, 1)
	nav := view.NavigatorFunc(func(route string) { redirect <- route })

	detail := view.NewCustomerDetail(client, id, newConfirmer(), nav, viewSettings(), logger)
	defer detail.Close()

	if err := detail.Load(ctx); err != nil {
		fmt.Print(formatter.FormatCustomer(detail.Snapshot()))
		return err
	}
	fmt.Print(formatter.FormatCustomer(detail.Snapshot()))

	err = detail.Delete(ctx)
	if errors.Is(err, view.ErrCancelled) {
		logger.Info().Msg("Deletion cancelled")
		return nil
	}
	fmt.Print(formatter.FormatCustomer(detail.Snapshot()))
	if err != nil {
		return err
	}

	select {
	case route := <-redirect:
		detail.Close()
		return open(ctx, route)
	case <-ctx.Done():
		return nil
	}
}
