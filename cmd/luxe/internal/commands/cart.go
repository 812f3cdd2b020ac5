package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/luxe/internal/api"
	"github.com/wolfeidau/luxe/internal/cart"
)

// CartCmd manages the shopping cart.
type CartCmd struct {
	Show   CartShowCmd   `cmd:"" help:"Show the cart" default:"1"`
	Add    CartAddCmd    `cmd:"" help:"Add a product to the cart"`
	Update CartUpdateCmd `cmd:"" help:"Change the quantity of a cart line"`
	Remove CartRemoveCmd `cmd:"" help:"Remove a cart line"`
	Clear  CartClearCmd  `cmd:"" help:"Empty the cart"`
}

// cartRun loads the cart for the current user, runs op and prints the result.
func cartRun(ctx context.Context, globals *Globals, op func(s *cart.Slice) error) error {
	return withApp(ctx, globals, func(a *app) error {
		s := a.cart()
		defer s.Close()

		if err := op(s); err != nil {
			return err
		}
		printCart(a, s.Snapshot())
		return nil
	})
}

func printCart(a *app, snap cart.Snapshot) {
	if len(snap.Items) == 0 {
		a.println("Your cart is empty.")
		return
	}

	w := a.table()
	fmt.Fprintln(w, "ITEM\tPRODUCT\tPRICE\tQTY\tSUBTOTAL")
	for _, item := range snap.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", item.ID, item.Product.Name, item.Product.Price, item.Quantity, item.Subtotal)
	}
	w.Flush()
	a.printf("\n%d item(s), total %s\n", snap.ItemCount, snap.Total)
}

// CartShowCmd prints the cart.
type CartShowCmd struct{}

func (c *CartShowCmd) Run(ctx context.Context, globals *Globals) error {
	return cartRun(ctx, globals, func(s *cart.Slice) error {
		return s.Fetch(ctx)
	})
}

// CartAddCmd adds a product.
type CartAddCmd struct {
	ProductID int `arg:"" help:"Product ID"`
	Quantity  int `help:"Quantity to add" default:"1"`
}

func (c *CartAddCmd) Run(ctx context.Context, globals *Globals) error {
	return cartRun(ctx, globals, func(s *cart.Slice) error {
		return s.AddItem(ctx, c.ProductID, c.Quantity)
	})
}

// CartUpdateCmd sets a line's quantity.
type CartUpdateCmd struct {
	ItemID   int `arg:"" help:"Cart item ID"`
	Quantity int `arg:"" help:"New quantity"`
}

func (c *CartUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	return cartRun(ctx, globals, func(s *cart.Slice) error {
		return s.UpdateItemQuantity(ctx, c.ItemID, c.Quantity)
	})
}

// CartRemoveCmd removes a line.
type CartRemoveCmd struct {
	ItemID int `arg:"" help:"Cart item ID"`
}

func (c *CartRemoveCmd) Run(ctx context.Context, globals *Globals) error {
	return cartRun(ctx, globals, func(s *cart.Slice) error {
		return s.RemoveItem(ctx, c.ItemID)
	})
}

// CartClearCmd empties the cart.
type CartClearCmd struct{}

func (c *CartClearCmd) Run(ctx context.Context, globals *Globals) error {
	return cartRun(ctx, globals, func(s *cart.Slice) error {
		return s.Clear(ctx)
	})
}

// CheckoutCmd places an order.
type CheckoutCmd struct {
	Items []int `help:"Cart item IDs to order; all items when omitted" name:"item"`
}

func (c *CheckoutCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		order, err := a.storefront.Checkout(ctx, c.Items)
		if err != nil {
			return err
		}
		a.printf("Order #%d placed: %s, total %s\n", order.ID, order.Status, order.Total)
		return nil
	})
}

// OrdersCmd lists the user's orders.
type OrdersCmd struct{}

func (c *OrdersCmd) Run(ctx context.Context, globals *Globals) error {
	return withApp(ctx, globals, func(a *app) error {
		orders, err := a.storefront.Orders(ctx)
		if err != nil {
			return err
		}
		printOrders(a, orders)
		return nil
	})
}

func printOrders(a *app, orders []api.Order) {
	if len(orders) == 0 {
		a.println("No orders found.")
		return
	}

	w := a.table()
	fmt.Fprintln(w, "ORDER\tUSER\tSTATUS\tITEMS\tTOTAL\tCREATED")
	for _, o := range orders {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n", o.ID, orDash(o.Username), o.Status, len(o.Items), o.Total, o.CreatedAt)
	}
	w.Flush()
}
