package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-vip-service/internal/client"
	"github.com/LavaJover/shvark-vip-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-vip-service/internal/domain"
	"github.com/urfave/cli/v3"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

var app = cli.Command{
	Name:  "vipctl",
	Usage: "Drive the VIP payment API from a terminal",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "api",
			Usage:   "Payment API base URL",
			Value:   "http://localhost:8080",
			Sources: cli.EnvVars("VIPCTL_API"),
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "Bearer token of the acting user",
			Sources: cli.EnvVars("VIPCTL_TOKEN"),
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "HTTP request timeout",
			Value: 10 * time.Second,
		},
	},
	Commands: []*cli.Command{
		{
			Name:   "config",
			Usage:  "Show pricing, mode and accepted currencies",
			Action: configAction,
		},
		{
			Name:      "status",
			Usage:     "Show a payment status",
			ArgsUsage: "<payment-id>",
			Action:    statusAction,
		},
		{
			Name:   "pending",
			Usage:  "Show whether the user has a pending payment",
			Action: pendingAction,
		},
		{
			Name:  "upgrade",
			Usage: "Create a VIP payment and watch it",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "currency", Usage: "Pay currency", Value: "USDT"},
			},
			Action: upgradeAction,
		},
		{
			Name:   "resume",
			Usage:  "Reopen the pending payment and watch it",
			Action: resumeAction,
		},
		{
			Name:   "cancel",
			Usage:  "Cancel the pending payment",
			Action: cancelAction,
		},
		{
			Name:  "token",
			Usage: "Issue a user token for local testing",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "secret", Required: true, Sources: cli.EnvVars("JWT_SECRET")},
				&cli.StringFlag{Name: "issuer", Sources: cli.EnvVars("JWT_ISSUER")},
				&cli.StringFlag{Name: "user", Required: true},
				&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour},
			},
			Action: func(ctx context.Context, c *cli.Command) error {
				token, err := middleware.IssueToken(c.String("secret"), c.String("issuer"), c.String("user"), c.Duration("ttl"))
				if err != nil {
					return err
				}
				fmt.Println(token)
				return nil
			},
		},
		adminCommand,
	},
}

var adminCommand = &cli.Command{
	Name:  "admin",
	Usage: "Back-office operations over gRPC",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "addr",
			Usage:   "Admin gRPC address",
			Value:   "localhost:9090",
			Sources: cli.EnvVars("VIPCTL_ADMIN_ADDR"),
		},
	},
	Commands: []*cli.Command{
		{
			Name:      "get",
			ArgsUsage: "<payment-id>",
			Action: withAdmin(func(ctx context.Context, c *cli.Command, admin *client.AdminClient) (*structpb.Struct, error) {
				return admin.GetPayment(ctx, c.Args().First())
			}),
		},
		{
			Name:      "fail",
			ArgsUsage: "<payment-id>",
			Flags:     []cli.Flag{&cli.StringFlag{Name: "reason", Value: "manual"}},
			Action: withAdmin(func(ctx context.Context, c *cli.Command, admin *client.AdminClient) (*structpb.Struct, error) {
				return admin.MarkFailed(ctx, c.Args().First(), c.String("reason"))
			}),
		},
		{
			Name:      "refund",
			ArgsUsage: "<payment-id>",
			Flags:     []cli.Flag{&cli.StringFlag{Name: "reason", Value: "manual"}},
			Action: withAdmin(func(ctx context.Context, c *cli.Command, admin *client.AdminClient) (*structpb.Struct, error) {
				return admin.MarkRefunded(ctx, c.Args().First(), c.String("reason"))
			}),
		},
		{
			Name: "list-pending",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "user"},
				&cli.IntFlag{Name: "page", Value: 1},
				&cli.IntFlag{Name: "limit", Value: 50},
			},
			Action: withAdmin(func(ctx context.Context, c *cli.Command, admin *client.AdminClient) (*structpb.Struct, error) {
				return admin.ListPending(ctx, c.String("user"), int(c.Int("page")), int(c.Int("limit")))
			}),
		},
	},
}

type adminAction func(ctx context.Context, c *cli.Command, admin *client.AdminClient) (*structpb.Struct, error)

func withAdmin(action adminAction) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		admin, err := client.NewAdminClient(c.String("addr"))
		if err != nil {
			return fmt.Errorf("failed to connect to admin service: %w", err)
		}
		defer admin.Close()

		resp, err := action(ctx, c, admin)
		if err != nil {
			return err
		}
		out, err := protojson.MarshalOptions{Multiline: true}.Marshal(resp)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
}

func apiClient(c *cli.Command) *client.APIClient {
	return client.NewAPIClient(c.String("api"), c.String("token"), c.Duration("timeout"))
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func configAction(ctx context.Context, c *cli.Command) error {
	cfg, err := apiClient(c).Config(ctx)
	if err != nil {
		return err
	}
	return printJSON(cfg)
}

func statusAction(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("payment id is required")
	}
	out, err := apiClient(c).GetPaymentStatus(ctx, c.Args().First())
	if err != nil {
		return err
	}
	return printJSON(out)
}

func pendingAction(ctx context.Context, c *cli.Command) error {
	page := client.NewVipPage(apiClient(c), client.ModalConfig{Notifier: consoleNotifier{}})
	view, err := page.Load(ctx)
	if err != nil {
		return err
	}
	printView(view)
	return nil
}

func upgradeAction(ctx context.Context, c *cli.Command) error {
	page, reloaded := newPage(c)
	if _, err := page.Load(ctx); err != nil {
		return err
	}
	modal, err := page.Upgrade(ctx, c.String("currency"))
	if err != nil {
		return err
	}
	if page.TestMode() {
		fmt.Println("test mode: nominal charge")
	}
	return watch(ctx, modal, reloaded)
}

func resumeAction(ctx context.Context, c *cli.Command) error {
	page, reloaded := newPage(c)
	if _, err := page.Load(ctx); err != nil {
		return err
	}
	modal, err := page.Resume(ctx)
	if err != nil {
		return err
	}
	return watch(ctx, modal, reloaded)
}

func cancelAction(ctx context.Context, c *cli.Command) error {
	page, _ := newPage(c)
	if _, err := page.Load(ctx); err != nil {
		return err
	}
	view, err := page.Cancel(ctx)
	if err != nil {
		return err
	}
	printView(view)
	return nil
}

func newPage(c *cli.Command) (*client.VipPage, <-chan struct{}) {
	reloaded := make(chan struct{})
	page := client.NewVipPage(apiClient(c), client.ModalConfig{
		Notifier: consoleNotifier{},
		Reload:   func() { close(reloaded) },
	})
	return page, reloaded
}

// watch renders the modal until it reaches a terminal state or the user
// interrupts. Interrupting leaves the payment pending.
func watch(ctx context.Context, modal *client.PaymentModal, reloaded <-chan struct{}) error {
	intent := modal.Intent()
	fmt.Printf("send %s %s (%s) to %s\n", intent.PayAmount.String(), intent.PayCurrency, intent.Network, intent.Address)
	fmt.Printf("payment id: %s\n", intent.ID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			modal.Close()
			fmt.Println("\nstopped watching, the payment is still pending and can be resumed")
			return nil
		case <-modal.Done():
			fmt.Printf("\nfinal state: %s\n", modal.State())
			if modal.State() == client.StatePaid {
				select {
				case <-reloaded:
					fmt.Println("VIP is active, refresh your session")
				case <-ctx.Done():
				}
			}
			return nil
		case <-ticker.C:
			remaining := modal.Remaining().Truncate(time.Second)
			fmt.Printf("\r%-8s %s   ", modal.State(), remaining)
		}
	}
}

func printView(view client.View) {
	if view.Pending == nil {
		fmt.Println("no pending payment: upgrade available")
		return
	}
	fmt.Printf("pending payment %s (%s): resume or cancel\n", view.Pending.ID, view.Pending.Status)
}

type consoleNotifier struct{}

func (consoleNotifier) Success(message string) { fmt.Println("\n✔ " + message) }
func (consoleNotifier) Error(message string)   { fmt.Fprintln(os.Stderr, "\n✘ "+message) }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		if errors.Is(err, client.ErrLoginRequired) || errors.Is(err, domain.ErrUnauthenticated) {
			log.Fatal("login required: pass --token or set VIPCTL_TOKEN")
		}
		log.Fatal(err)
	}
}
