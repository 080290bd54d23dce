package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/lumiere-jewels/storefront/app/config"
	"github.com/lumiere-jewels/storefront/app/server"
	"github.com/lumiere-jewels/storefront/app/store"
)

const usage = "expected 'add-admin', 'export-products' or 'import-products' subcommand"

var errUsage = errors.New(usage)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	addAdminCmd := flag.NewFlagSet("add-admin", flag.ContinueOnError)
	username := addAdminCmd.String("username", "", "Username for the new admin")
	email := addAdminCmd.String("email", "", "Email for the new admin")
	password := addAdminCmd.String("password", "", "Password for the new admin")

	exportCmd := flag.NewFlagSet("export-products", flag.ContinueOnError)
	exportOut := exportCmd.String("out", "products.xlsx", "Spreadsheet to write")

	importCmd := flag.NewFlagSet("import-products", flag.ContinueOnError)
	importIn := importCmd.String("in", "", "Spreadsheet to read")

	if len(args) < 1 {
		return errUsage
	}

	switch args[0] {
	case "add-admin":
		if err := addAdminCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *username == "" || *email == "" || *password == "" {
			addAdminCmd.PrintDefaults()
			return errors.New("username, email and password are required")
		}
		return withApp(func(ctx context.Context, app *server.App) error {
			user, err := app.Accounts.CreateAdmin(ctx, *username, *email, *password)
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}
			fmt.Fprintf(out, "Admin '%s' created with id %s.\n", user.Username, user.ID)
			return nil
		})
	case "export-products":
		if err := exportCmd.Parse(args[1:]); err != nil {
			return err
		}
		return withApp(func(ctx context.Context, app *server.App) error {
			f, err := os.Create(*exportOut)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", *exportOut, err)
			}
			defer f.Close()
			if err := app.Catalog.Export(ctx, f); err != nil {
				return fmt.Errorf("failed to export products: %w", err)
			}
			fmt.Fprintf(out, "Products written to %s.\n", *exportOut)
			return f.Close()
		})
	case "import-products":
		if err := importCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *importIn == "" {
			importCmd.PrintDefaults()
			return errors.New("-in is required")
		}
		return withApp(func(ctx context.Context, app *server.App) error {
			f, err := os.Open(*importIn)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", *importIn, err)
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return fmt.Errorf("failed to stat %s: %w", *importIn, err)
			}
			res, err := app.Catalog.Import(ctx, f, info.Size())
			if err != nil {
				return fmt.Errorf("failed to import products: %w", err)
			}
			fmt.Fprintf(out, "Created %d, updated %d, skipped %d.\n", res.Created, res.Updated, res.Skipped)
			for _, e := range res.Errors {
				fmt.Fprintf(out, "  row %d: %s\n", e.Row, e.Message)
			}
			return nil
		})
	default:
		return errUsage
	}
}

// withApp opens the configured store and runs fn against the wired services.
// The store is closed before any error from fn is returned.
func withApp(fn func(ctx context.Context, app *server.App) error) (err error) {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Database.Driver == store.DriverMemory {
		log.Printf("STORE_DRIVER is memory; changes will not outlive this command")
	}

	st, err := store.Open(ctx, store.Options{
		Driver: cfg.Database.Driver,
		URL:    cfg.Database.URL,
		Path:   cfg.Database.Path,
	})
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		err = errors.Join(err, st.Close())
	}()

	app, err := server.NewApp(cfg, st, nil)
	if err != nil {
		return fmt.Errorf("failed to wire application: %w", err)
	}
	return fn(ctx, app)
}
