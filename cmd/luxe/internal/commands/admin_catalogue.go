package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/luxe/internal/api"
)

// AdminProductsCmd manages the catalogue.
type AdminProductsCmd struct {
	List   AdminProductsListCmd   `cmd:"" help:"List all products"`
	Create AdminProductsCreateCmd `cmd:"" help:"Create a product"`
	Update AdminProductsUpdateCmd `cmd:"" help:"Update a product"`
	Delete AdminProductsDeleteCmd `cmd:"" help:"Delete a product"`
}

// ProductFlags are shared by create and update. Unset flags are not sent.
type ProductFlags struct {
	Name        string   `help:"Product name"`
	Description string   `help:"Description"`
	Price       string   `help:"Price, e.g. 49.99"`
	ImageURL    string   `help:"Primary image URL" name:"image-url"`
	ImageURLs   []string `help:"Carousel image URLs, replacing existing ones" name:"image" xor:"images"`
	ClearImages bool     `help:"Remove every carousel image" name:"clear-images" xor:"images"`
	CategoryID  int      `help:"Category ID" name:"category-id"`
	Stock       int      `help:"Units in stock" default:"-1"`
	Available   bool     `help:"Put the product on sale" xor:"availability"`
	Unavailable bool     `help:"Take the product off sale" xor:"availability"`
}

func (f ProductFlags) input() api.ProductInput {
	in := api.ProductInput{
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		ImageURL:    f.ImageURL,
		ImageURLs:   f.ImageURLs,
	}
	if f.ClearImages {
		in.ImageURLs = []string{}
	}
	if f.CategoryID > 0 {
		in.CategoryID = &f.CategoryID
	}
	if f.Stock >= 0 {
		in.Stock = &f.Stock
	}
	if f.Available || f.Unavailable {
		available := f.Available
		in.IsAvailable = &available
	}
	return in
}

// AdminProductsListCmd lists every product.
type AdminProductsListCmd struct{}

func (c *AdminProductsListCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		if err := a.requireAdmin(); err != nil {
			return err
		}
		products, err := a.adminAPI.Products(ctx)
		if err != nil {
			return err
		}
		printProducts(a, products)
		return nil
	})
}

// AdminProductsCreateCmd adds a product.
type AdminProductsCreateCmd struct {
	ProductFlags `embed:""`
}

func (c *AdminProductsCreateCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		if err := a.requireAdmin(); err != nil {
			return err
		}
		if c.Name == "" || c.Price == "" {
			return fmt.Errorf("--name and --price are required")
		}
		p, err := a.adminAPI.CreateProduct(ctx, c.input())
		if err != nil {
			return err
		}
		a.printf("Created product %s (id %d)\n", p.Name, p.ID)
		return nil
	})
}

// AdminProductsUpdateCmd changes a product.
type AdminProductsUpdateCmd struct {
	ID           int `arg:"" help:"Product ID"`
	ProductFlags `embed:""`
}

func (c *AdminProductsUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		if err := a.requireAdmin(); err != nil {
			return err
		}
		p, err := a.adminAPI.UpdateProduct(ctx, c.ID, c.input())
		if err != nil {
			return err
		}
		a.printf("Updated product %s (id %d)\n", p.Name, p.ID)
		return nil
	})
}

// AdminProductsDeleteCmd removes a product.
type AdminProductsDeleteCmd struct {
	ID int `arg:"" help:"Product ID"`
}

func (c *AdminProductsDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		if err := a.requireAdmin(); err != nil {
			return err
		}
		if err := a.adminAPI.DeleteProduct(ctx, c.ID); err != nil {
			return err
		}
		a.printf("Product %d deleted.\n", c.ID)
		return nil
	})
}

// AdminOrdersCmd manages orders.
type AdminOrdersCmd struct {
	List      AdminOrdersListCmd      `cmd:"" help:"List orders"`
	Show      AdminOrdersShowCmd      `cmd:"" help:"Show an order"`
	SetStatus AdminOrdersSetStatusCmd `cmd:"" name:"set-status" help:"Change an order's status"`
}

// AdminOrdersListCmd lists orders.
type AdminOrdersListCmd struct {
	Status string `help:"pending, confirmed, shipped, delivered or cancelled"`
	User   string `help:"Username"`
	Search string `help:"Match order number, username or email"`
	From   string `help:"Created on or after (YYYY-MM-DD)"`
	To     string `help:"Created on or before (YYYY-MM-DD)"`
}

func (c *AdminOrdersListCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		if err := a.requireAdmin(); err != nil {
			return err
		}
		orders, err := a.adminAPI.Orders(ctx, api.OrderFilter{
			Status: c.Status,
			User:   c.User,
			Search: c.Search,
			From:   c.From,
			To:     c.To,
		})
		if err != nil {
			return err
		}
		printOrders(a, orders)
		return nil
	})
}

// AdminOrdersShowCmd shows an order with its lines.
type AdminOrdersShowCmd struct {
	ID int `arg:"" help:"Order ID"`
}

func (c *AdminOrdersShowCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		if err := a.requireAdmin(); err != nil {
			return err
		}
		o, err := a.adminAPI.Order(ctx, c.ID)
		if err != nil {
			return err
		}

		a.printf("Order #%d (%s)\n", o.ID, o.Status)
		a.printf("  Customer:  %s %s\n", orDash(o.Username), o.Email)
		a.printf("  Placed:    %s\n", orDash(o.CreatedAt))
		a.println()

		w := a.table()
		fmt.Fprintln(w, "ITEM\tPRICE\tQTY\tSUBTOTAL")
		for _, item := range o.Items {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", item.Name, item.Price, item.Quantity, item.Subtotal)
		}
		w.Flush()
		a.printf("\nTotal: %s\n", o.Total)
		return nil
	})
}

// AdminOrdersSetStatusCmd moves an order to a new status.
type AdminOrdersSetStatusCmd struct {
	ID     int    `arg:"" help:"Order ID"`
	Status string `arg:"" enum:"pending,confirmed,shipped,delivered,cancelled" help:"New status"`
}

func (c *AdminOrdersSetStatusCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		if err := a.requireAdmin(); err != nil {
			return err
		}
		o, err := a.adminAPI.UpdateOrderStatus(ctx, c.ID, c.Status)
		if err != nil {
			return err
		}
		a.printf("Order #%d is now %s\n", o.ID, o.Status)
		return nil
	})
}
