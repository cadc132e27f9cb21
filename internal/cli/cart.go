package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/WaelFer/BooksApp/internal/model"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
	}
	cmd.AddCommand(newCartAddCmd(a), newCartListCmd(a))
	return cmd
}

func newCartAddCmd(a *app) *cobra.Command {
	var quantity int
	cmd := &cobra.Command{
		Use:   "add <bookId>",
		Short: "Put a book in the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseID(args[0])
			if err != nil {
				return err
			}
			create := &model.NewCartItem{BookID: bookID}
			if cmd.Flags().Changed("quantity") {
				create.Quantite = &quantity
			}

			item, err := a.store.AddCartItem(cmd.Context(), create)
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Book %d added to the cart (line %d).\n", item.BookID, item.ID)
			return nil
		},
	}
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "number of copies")
	return cmd
}

func newCartListCmd(a *app) *cobra.Command {
	var bookID int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cart lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			find := &model.FindCartItem{}
			if cmd.Flags().Changed("book") {
				find.BookID = &bookID
			}
			items, err := a.store.ListCartItems(cmd.Context(), find)
			if err != nil {
				return userError(err)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "The cart is empty.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderCartTable(items))
			return nil
		},
	}
	cmd.Flags().IntVar(&bookID, "book", 0, "only lines for this book id")
	return cmd
}
