package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core/cart"
)

func (cli *commandLine) cart(ctx context.Context, args []string) error {
	sub, args, err := cli.subcommand("cart", args, "courses", "list", "add", "remove", "checkout", "order")
	if err != nil {
		return err
	}
	co := cart.NewCheckout(cart.Deps{
		Backend:   cli.api,
		IDs:       cli.cartIDs,
		Users:     cli.sessions,
		Notifier:  cli.notifier,
		Logger:    cli.logger,
		Validator: cli.validator,
	})

	fs := cli.flagSet("cart " + sub)
	switch sub {
	case "courses":
		if err = cli.parse(fs, args); err != nil {
			return err
		}
		courses, err := cli.api.Courses(ctx)
		if err != nil {
			cli.notifier.Error("Failed to load courses")
			return err
		}
		for _, crs := range courses {
			cli.printf("%4d  %-40s %8s\n", crs.ID, crs.Title, crs.Price)
		}
		return nil

	case "list":
		if err = cli.parse(fs, args); err != nil {
			return err
		}
		if err = co.Load(ctx); err != nil {
			return err
		}

	case "add":
		courseID := fs.Int("course", 0, "Id of the course to add")
		country := fs.String("country", "", "Country of the buyer")
		if err = cli.parse(fs, args, "course"); err != nil {
			return err
		}
		crs, err := cli.catalogCourse(ctx, *courseID)
		if err != nil {
			return err
		}
		if err = co.Add(ctx, crs, *country); err != nil {
			return err
		}

	case "remove":
		itemID := fs.Int("item", 0, "Id of the cart item to remove")
		if err = cli.parse(fs, args, "item"); err != nil {
			return err
		}
		if err = co.Remove(ctx, *itemID); err != nil {
			return err
		}
		if err = co.Load(ctx); err != nil {
			return err
		}

	case "checkout":
		var bio cart.BioData
		fs.StringVar(&bio.FullName, "name", "", "Billing full name (defaults to the signed-in user's)")
		fs.StringVar(&bio.Email, "email", "", "Billing email (defaults to the signed-in user's)")
		fs.StringVar(&bio.Country, "country", "", "Billing country")
		if err = cli.parse(fs, args); err != nil {
			return err
		}
		if id, err := cli.sessions.Identity(); err == nil {
			if bio.FullName == "" {
				bio.FullName = id.FullName
			}
			if bio.Email == "" {
				bio.Email = id.Email
			}
		}
		oid, err := co.CreateOrder(ctx, bio)
		if err != nil {
			return err
		}
		return cli.printOrder(ctx, co, oid)

	case "order":
		oid := fs.String("oid", "", "Id of the order")
		if err = cli.parse(fs, args, "oid"); err != nil {
			return err
		}
		return cli.printOrder(ctx, co, *oid)
	}

	cartID, err := cli.cartIDs.ID()
	if err != nil {
		return err
	}
	cli.printf("Cart %s (%d items)\n", cartID, co.Count())
	for _, it := range co.Items() {
		cli.printf("%4d  %-40s %8s\n", it.ID, it.Course.Title, it.Price)
	}
	stats := co.Stats()
	cli.printf("      %-40s %8s\n", "Sub total", stats.Price)
	cli.printf("      %-40s %8s\n", "Tax", stats.Tax)
	cli.printf("      %-40s %8s\n", "Total", stats.Total)
	return nil
}

func (cli *commandLine) catalogCourse(ctx context.Context, id int) (cart.Course, error) {
	courses, err := cli.api.Courses(ctx)
	if err != nil {
		cli.notifier.Error("Failed to load courses")
		return cart.Course{}, errors.Wrap(err, "fetching courses")
	}
	for _, crs := range courses {
		if crs.ID == id {
			return crs, nil
		}
	}
	cli.notifier.Error("Course not found")
	return cart.Course{}, errors.Errorf("course %d not found", id)
}

func (cli *commandLine) printOrder(ctx context.Context, co *cart.Checkout, oid string) error {
	order, err := co.Order(ctx, oid)
	if err != nil {
		return err
	}
	cli.printf("Order %s: %s\n", order.OID, order.PaymentStatus)
	cli.printf("%s <%s>, %s\n", order.FullName, order.Email, order.Country)
	for _, it := range order.OrderItems {
		cli.printf("  %-40s %8s\n", it.Course.Title, it.Price)
	}
	cli.printf("  %-40s %8s\n", "Sub total", order.SubTotal)
	cli.printf("  %-40s %8s\n", "Tax", order.Tax)
	cli.printf("  %-40s %8s\n", "Total", order.Total)
	return nil
}
