// Command checkout buys credentials from a running storefront: it places an order,
// prints the QR payload and polls until the order settles or expires.
package main

import (
	"account-storefront/internal/client"
	"account-storefront/internal/model"
	"account-storefront/internal/poller"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8080", "storefront base URL")
		product  = flag.String("product", "", "product id, e.g. net-x")
		quantity = flag.Int("qty", 1, "number of credentials")
		interval = flag.Duration("interval", poller.DefaultInterval, "poll period")
		window   = flag.Duration("window", poller.DefaultExpiryWindow, "payment countdown shown to the buyer")
	)
	flag.Parse()

	if *product == "" {
		fmt.Fprintln(os.Stderr, "-product is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := checkout(ctx, client.NewStorefrontClient(*baseURL, 15*time.Second), *product, *quantity, *interval, *window); err != nil {
		fmt.Fprintln(os.Stderr, "checkout:", err)
		os.Exit(1)
	}
}

func checkout(ctx context.Context, storefront client.StorefrontClient, productID string, quantity int, interval, window time.Duration) error {
	order, err := storefront.PlaceOrder(ctx, productID, quantity)
	if err != nil {
		return err
	}

	fmt.Printf("order %s: pay %d\n", order.OrderID, order.Total)
	fmt.Printf("scan: %s\n", order.QRPayload)

	settler := poller.SettlerFunc(func(ctx context.Context, id string) (*poller.Result, error) {
		status, err := storefront.OrderStatus(ctx, id)
		if err != nil {
			return nil, err
		}
		return &poller.Result{
			Status:            model.OrderStatus(status.Status),
			DeliveredAccounts: status.DeliveredAccounts,
		}, nil
	})

	task := poller.Start(ctx, settler, order.OrderID, poller.Options{
		Interval:     interval,
		ExpiryWindow: window,
		CreatedAt:    order.CreatedAt,
		OnTick: func(tick poller.Tick) {
			switch {
			case tick.Err != nil:
				fmt.Printf("  waiting (%s left, retrying: %v)\n", tick.Remaining.Round(time.Second), tick.Err)
			case tick.Remaining == 0 && !tick.Status.IsTerminal():
				fmt.Println("  payment window elapsed, waiting for the gateway to confirm")
			default:
				fmt.Printf("  %s (%s left)\n", tick.Status, tick.Remaining.Round(time.Second))
			}
		},
	})
	<-task.Done()

	result, err := task.Result()
	if err != nil {
		if ctx.Err() != nil {
			fmt.Printf("stopped polling; order %s stays pending until the gateway reports it\n", order.OrderID)
			return nil
		}
		return err
	}

	if result.Status == model.OrderExpired {
		return fmt.Errorf("order %s expired before payment", order.OrderID)
	}

	fmt.Printf("order %s settled, %d account(s):\n", order.OrderID, len(result.DeliveredAccounts))
	for _, account := range result.DeliveredAccounts {
		fmt.Println(account)
	}
	return nil
}
