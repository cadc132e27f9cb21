package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/WaelFer/BooksApp/internal/config"
	"github.com/WaelFer/BooksApp/internal/model"
	"github.com/WaelFer/BooksApp/internal/store"
	"github.com/WaelFer/BooksApp/internal/util"
	"github.com/WaelFer/BooksApp/internal/validator"
	"github.com/WaelFer/BooksApp/internal/version"
)

// bookFlags holds the raw values of the add and update forms.
type bookFlags struct {
	title, author, country, language, link, image string
	pages, year                                   int
	price                                         float64
}

func (f *bookFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.title, "title", "", "title")
	flags.StringVar(&f.author, "author", "", "author")
	flags.StringVar(&f.country, "country", "", "country of publication")
	flags.StringVar(&f.language, "language", "", "language")
	flags.StringVar(&f.link, "link", "", "http(s) link to the book page")
	flags.IntVar(&f.pages, "pages", 0, "number of pages")
	flags.IntVar(&f.year, "year", 0, "year of publication")
	flags.Float64Var(&f.price, "price", 0, "price")
	flags.StringVar(&f.image, "image", "", "cover image, a remote URL or a local URI")
}

// optional returns the flag values the user actually set. Flags left out
// stay nil so they are stored as unknown rather than as zero.
func (f *bookFlags) optional(flags *pflag.FlagSet) (country, language, link *string, pages, year *int, price *float64) {
	if flags.Changed("country") {
		country = &f.country
	}
	if flags.Changed("language") {
		language = &f.language
	}
	if flags.Changed("link") {
		link = &f.link
	}
	if flags.Changed("pages") {
		pages = &f.pages
	}
	if flags.Changed("year") {
		year = &f.year
	}
	if flags.Changed("price") {
		price = &f.price
	}
	return
}

func invalidInput(err error) error {
	return errors.Wrap(store.ErrValidation, err.Error())
}

func parseID(arg string) (int, error) {
	id, err := util.ConvertStringToInt(arg)
	if err != nil || id <= 0 {
		return 0, errors.Wrapf(store.ErrValidation, "id %q must be a positive integer", arg)
	}
	return id, nil
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the catalog database, or upgrade it, and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			count, err := a.store.CountBooks(cmd.Context())
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Catalog ready at %s (schema %s, %d books)\n",
				a.db.Path(), version.GetSchemaVersion(version.GetCurrentVersion()), count)
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	f := &bookFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := &model.NewBookInput{
				Title:  f.title,
				Author: f.author,
				Image:  f.image,
			}
			input.Country, input.Language, input.Link, input.Pages, input.PublishedDate, input.Prix = f.optional(cmd.Flags())
			if err := validator.ValidateBookCreateRequest(input); err != nil {
				return invalidInput(err)
			}

			book, err := a.store.InsertBook(cmd.Context(), input)
			if err != nil {
				return userError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderBook(book))
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var (
		limit, offset int
		orderBy       string
		title, author string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books in the order they were added",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			find := &model.FindBook{
				Title:  util.TrimmedOrNil(title),
				Author: util.TrimmedOrNil(author),
			}
			if orderBy != "" {
				find.OrderBy = &orderBy
			}
			// An explicit --limit is passed on as given, 0 lists everything.
			if !cmd.Flags().Changed("limit") {
				limit = config.Opts.DefaultPageSize
			}
			if limit != 0 {
				find.Limit = &limit
			}
			if cmd.Flags().Changed("offset") {
				find.Offset = &offset
			}

			books, err := a.store.ListBooks(cmd.Context(), find)
			if err != nil {
				return userError(err)
			}
			if len(books) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No books yet.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderBookTable(books))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&limit, "limit", 0, "maximum number of books, 0 lists all (defaults to default_page_size)")
	flags.IntVar(&offset, "offset", 0, "number of books to skip")
	flags.StringVar(&orderBy, "order", "", "sort column, prefix with - for descending")
	flags.StringVar(&title, "title", "", "only books with this exact title")
	flags.StringVar(&author, "author", "", "only books by this exact author")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show every detail of one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			book, err := a.store.GetBook(cmd.Context(), id)
			if errors.Is(err, store.ErrNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), renderMissingBook(id))
				return nil
			}
			if err != nil {
				return userError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderBook(book))
			return nil
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	f := &bookFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change some fields of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			update := &model.UpdateBook{ID: id}
			if flags.Changed("title") {
				update.Title = &f.title
			}
			if flags.Changed("author") {
				update.Author = &f.author
			}
			if flags.Changed("image") {
				update.Image = &f.image
			}
			update.Country, update.Language, update.Link, update.Pages, update.PublishedDate, update.Prix = f.optional(flags)
			if err := validator.ValidateBookUpdateRequest(update); err != nil {
				return invalidInput(err)
			}

			book, err := a.store.UpdateBook(cmd.Context(), update)
			if err != nil {
				return userError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderBook(book))
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a book from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.store.DeleteBook(cmd.Context(), id); err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Book %d deleted.\n", id)
			return nil
		},
	}
}
