package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/luxe/cmd/luxe/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Login      commands.LoginCmd      `cmd:"" help:"Log in to the storefront"`
		Signup     commands.SignupCmd     `cmd:"" help:"Create a storefront account"`
		Logout     commands.LogoutCmd     `cmd:"" help:"Log out of the storefront"`
		Whoami     commands.WhoamiCmd     `cmd:"" help:"Show the current sessions"`
		Token      commands.TokenCmd      `cmd:"" help:"Inspect or refresh stored tokens"`
		Products   commands.ProductsCmd   `cmd:"" help:"Browse the catalogue"`
		Categories commands.CategoriesCmd `cmd:"" help:"List product categories"`
		Cart       commands.CartCmd       `cmd:"" help:"Manage the shopping cart"`
		Checkout   commands.CheckoutCmd   `cmd:"" help:"Place an order from the cart"`
		Orders     commands.OrdersCmd     `cmd:"" help:"List your orders"`
		Admin      commands.AdminCmd      `cmd:"" help:"Admin console"`

		Debug   bool   `help:"Enable debug mode." env:"LUXE_DEBUG"`
		Config  string `help:"Config file (default ~/.luxe/config.yaml)." type:"path"`
		EnvFile string `help:"Dotenv file to load." default:".env" name:"env-file"`
		Server  string `help:"API base URL, overrides the config file."`
		Store   string `help:"Session store location, overrides the config file."`
		Version kong.VersionFlag
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := kong.Parse(&cli,
		kong.Name("luxe"),
		kong.Description("LUXE storefront and admin console client."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{
		Debug:   cli.Debug,
		Config:  cli.Config,
		EnvFile: cli.EnvFile,
		Server:  cli.Server,
		Store:   cli.Store,
		Version: version,
	})
	cmd.FatalIfErrorf(err)
}
