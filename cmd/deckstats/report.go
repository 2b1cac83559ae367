package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/deckstats/internal/config"
	"github.com/ramonehamilton/deckstats/internal/i18n"
	"github.com/ramonehamilton/deckstats/internal/printer"
	"github.com/ramonehamilton/deckstats/internal/report"
	"github.com/ramonehamilton/deckstats/internal/selection"
)

func newCardCommand() *cobra.Command {
	var pdfPath string
	var revlog bool

	cmd := &cobra.Command{
		Use:   "card <card-id>",
		Short: "Print or export the card info report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cardID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid card id %q", args[0])
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("revlog") {
				revlog = cfg.Stats.IncludeRevlog
			}
			src, closeFn, err := reportSource(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			rep, err := src.SingleCard(cmd.Context(), cardID, revlog)
			if err != nil {
				return err
			}
			return renderReport(cmd, rep, pdfPath)
		},
	}

	cmd.Flags().StringVar(&pdfPath, "pdf", "", "write a PDF to this path instead of printing HTML")
	cmd.Flags().BoolVar(&revlog, "revlog", false, "include the review history (default: from config)")

	return cmd
}

func newDeckCommand() *cobra.Command {
	var pdfPath, period string
	var collection bool

	cmd := &cobra.Command{
		Use:   "deck [deck-id]",
		Short: "Print or export the aggregate report of a deck or the whole collection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject := selection.Subject{WholeCollection: collection}
			switch {
			case len(args) == 1:
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid deck id %q", args[0])
				}
				subject.DeckID = id
			case !collection:
				return fmt.Errorf("a deck id or --collection is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if period == "" {
				period = cfg.Stats.DefaultPeriod
			}
			p, err := selection.ParsePeriod(period)
			if err != nil {
				return err
			}
			src, closeFn, err := reportSource(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			rep, err := src.Aggregate(cmd.Context(), subject, p)
			if err != nil {
				return err
			}
			return renderReport(cmd, rep, pdfPath)
		},
	}

	cmd.Flags().StringVar(&pdfPath, "pdf", "", "write a PDF to this path instead of printing HTML")
	cmd.Flags().StringVar(&period, "period", "", "month, year or life (default: from config)")
	cmd.Flags().BoolVar(&collection, "collection", false, "report on the whole collection")

	return cmd
}

func reportSource(cfg *config.Config) (*report.Source, func(), error) {
	labels, err := i18n.New(cfg.App.Language)
	if err != nil {
		return nil, nil, err
	}
	svc, closeFn, err := openStorage(cfg)
	if err != nil {
		return nil, nil, err
	}
	return report.NewSource(svc, labels), closeFn, nil
}

func renderReport(cmd *cobra.Command, rep *report.Report, pdfPath string) error {
	r := newRenderer(cmd.Context(), printer.New())
	defer r.close(cmd.Context())
	return r.render(cmd.Context(), rep, pdfPath, cmd.OutOrStdout())
}
