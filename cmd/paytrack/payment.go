package main

import (
	"github.com/spf13/cobra"

	"github.com/diewo77/paytrack/internal/config"
	"github.com/diewo77/paytrack/internal/handlers"
	"github.com/diewo77/paytrack/internal/money"
)

func newPaymentCmd(getCfg func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Record payments against invoices",
	}

	var amount, method string
	record := &cobra.Command{
		Use:     "record <invoice-id>",
		Short:   "Record a payment (cash, check or charge)",
		Example: "  paytrack payment record 1 --amount 40.00 --method cash",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			dollars, err := money.ParseDollars(amount)
			if err != nil {
				return err
			}
			svc, closeFn, err := newService(getCfg())
			if err != nil {
				return err
			}
			defer closeFn()
			p, err := svc.RecordPayment(cmd.Context(), id, dollars, method)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), handlers.NewPaymentView(p))
		},
	}
	record.Flags().StringVar(&amount, "amount", "", "amount in dollars")
	record.Flags().StringVar(&method, "method", "", "payment method: cash, check or charge")

	cmd.AddCommand(record)
	return cmd
}
