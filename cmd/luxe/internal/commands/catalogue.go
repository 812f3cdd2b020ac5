package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfeidau/luxe/internal/api"
)

// ProductsCmd browses the catalogue.
type ProductsCmd struct {
	List ProductsListCmd `cmd:"" help:"List available products"`
	Show ProductsShowCmd `cmd:"" help:"Show a product"`
}

// ProductsListCmd lists available products.
type ProductsListCmd struct {
	Search   string `help:"Match name or description"`
	Category string `help:"Category slug"`
	MinPrice string `help:"Minimum price" name:"min-price"`
	MaxPrice string `help:"Maximum price" name:"max-price"`
	Ordering string `help:"Sort order: price, -price, name, -name, created_at or -created_at"`
}

func (c *ProductsListCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		products, err := a.storefront.Products(ctx, api.ProductFilter{
			Search:   c.Search,
			Category: c.Category,
			MinPrice: c.MinPrice,
			MaxPrice: c.MaxPrice,
			Ordering: c.Ordering,
		})
		if err != nil {
			return err
		}
		printProducts(a, products)
		return nil
	})
}

func printProducts(a *app, products []api.Product) {
	if len(products) == 0 {
		a.println("No products found.")
		return
	}

	w := a.table()
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tAVAILABLE")
	for _, p := range products {
		category := "-"
		if p.Category != nil {
			category = p.Category.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%t\n", p.ID, p.Name, category, p.Price, p.Stock, p.IsAvailable)
	}
	w.Flush()
}

// ProductsShowCmd shows one product.
type ProductsShowCmd struct {
	ID int `arg:"" help:"Product ID"`
}

func (c *ProductsShowCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		p, err := a.storefront.Product(ctx, c.ID)
		if err != nil {
			return err
		}

		a.printf("Product: %s\n", p.Name)
		a.printf("  ID:          %d\n", p.ID)
		a.printf("  Price:       %s\n", p.Price)
		a.printf("  Stock:       %d\n", p.Stock)
		if p.Category != nil {
			a.printf("  Category:    %s\n", p.Category.Name)
		}
		if len(p.Images) > 0 {
			urls := make([]string, 0, len(p.Images))
			for _, img := range p.Images {
				urls = append(urls, img.URL)
			}
			a.printf("  Images:      %s\n", strings.Join(urls, ", "))
		}
		if p.Description != "" {
			a.println()
			a.println(p.Description)
		}
		return nil
	})
}

// CategoriesCmd lists product categories.
type CategoriesCmd struct{}

func (c *CategoriesCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		categories, err := a.storefront.Categories(ctx)
		if err != nil {
			return err
		}

		w := a.table()
		fmt.Fprintln(w, "ID\tNAME\tSLUG")
		for _, cat := range categories {
			fmt.Fprintf(w, "%d\t%s\t%s\n", cat.ID, cat.Name, cat.Slug)
		}
		return w.Flush()
	})
}
