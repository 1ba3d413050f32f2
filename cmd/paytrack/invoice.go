package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/diewo77/paytrack/internal/config"
	"github.com/diewo77/paytrack/internal/handlers"
	"github.com/diewo77/paytrack/internal/money"
)

func newInvoiceCmd(getCfg func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoice",
		Short: "Create, show and delete invoices",
	}

	var total string
	create := &cobra.Command{
		Use:     "create",
		Short:   "Create an invoice for a dollar total",
		Example: "  paytrack invoice create --total 100.00",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := money.ParseDollars(total)
			if err != nil {
				return err
			}
			svc, closeFn, err := newService(getCfg())
			if err != nil {
				return err
			}
			defer closeFn()
			inv, err := svc.CreateInvoice(cmd.Context(), amount)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), handlers.NewInvoiceView(inv))
		},
	}
	create.Flags().StringVar(&total, "total", "", "invoice total in dollars")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an invoice, its payments and the owed balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, closeFn, err := newService(getCfg())
			if err != nil {
				return err
			}
			defer closeFn()
			inv, err := svc.GetInvoice(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), handlers.NewInvoiceView(inv))
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an invoice and all of its payments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, closeFn, err := newService(getCfg())
			if err != nil {
				return err
			}
			defer closeFn()
			if err := svc.DeleteInvoice(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "invoice %d deleted\n", id)
			return nil
		},
	}

	cmd.AddCommand(create, show, del)
	return cmd
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid invoice id %q", s)
	}
	return uint(id), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
