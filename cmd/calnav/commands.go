package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kuitang/screening-ui/internal/calendar"
	"github.com/kuitang/screening-ui/internal/navigator"
	"github.com/kuitang/screening-ui/internal/page"
	"github.com/kuitang/screening-ui/internal/slots"
)

func newFlatCommand(a *app) *cobra.Command {
	var url, date string
	cmd := &cobra.Command{
		Use:   "flat",
		Short: "Navigate a flat date picker (prev/next year and month buttons) to a date",
		Example: `  calnav flat --url https://clinic.example/book --date 1963-01-28
  CALNAV_BASE_URL=https://clinic.example calnav flat --url /book --date 2025-06-09`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := calendar.ParseDate(date)
			if err != nil {
				return err
			}
			return a.onPage(cmd.Context(), "flat", url, func(ctx context.Context, acc page.Accessor) error {
				nav := navigator.NewFlat(acc, a.clock, a.cfg.Selectors.Flat)
				if err := nav.NavigateTo(ctx, target); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "selected %s\n", target)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "page URL, absolute or relative to CALNAV_BASE_URL")
	cmd.Flags().StringVar(&date, "date", "", "target date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newHierCommand(a *app) *cobra.Command {
	var url, date string
	var dryRun bool
	cmd := &cobra.Command{
		Use:     "hier",
		Aliases: []string{"hierarchical"},
		Short:   "Navigate a drill-down (century/decade/year/month) date picker to a date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := calendar.ParseDate(date)
			if err != nil {
				return err
			}
			if dryRun {
				nav := navigator.NewHierarchical(nil, a.clock, a.cfg.Selectors.Hierarchical)
				steps, err := nav.Plan(cmd.Context(), target)
				if err != nil {
					return err
				}
				for _, s := range steps {
					fmt.Fprintln(a.out, s)
				}
				return nil
			}
			return a.onPage(cmd.Context(), "hier", url, func(ctx context.Context, acc page.Accessor) error {
				nav := navigator.NewHierarchical(acc, a.clock, a.cfg.Selectors.Hierarchical)
				if err := nav.NavigateTo(ctx, target); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "selected %s\n", target)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "page URL, absolute or relative to CALNAV_BASE_URL")
	cmd.Flags().StringVar(&date, "date", "", "target date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the planned steps without opening a browser")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newSlotCommand(a *app) *cobra.Command {
	var url string
	var colors []string
	var maxPages int
	cmd := &cobra.Command{
		Use:   "slot",
		Short: "Click the earliest appointment cell whose background matches a colour",
		Example: `  calnav slot --url https://clinic.example/appointments --color green
  calnav slot --url /appointments --color "rgb(0, 128, 0)" --color lightgreen --max-pages 6`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("max-pages") {
				maxPages = a.cfg.MaxPages
			}
			tokens := make([]slots.ColorToken, len(colors))
			for i, c := range colors {
				tokens[i] = slots.ColorToken(c)
			}
			return a.onPage(cmd.Context(), "slot", url, func(ctx context.Context, acc page.Accessor) error {
				scanner := slots.NewScanner(acc, a.clock, a.cfg.Selectors.Slots)
				slot, err := scanner.FindEarliestSlot(ctx, tokens, maxPages)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "booked day %s on page %d (%s)\n", slot.Cell.TrimmedLabel(), slot.Page, slot.Color)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "page URL, absolute or relative to CALNAV_BASE_URL")
	cmd.Flags().StringArrayVar(&colors, "color", nil, "acceptable availability colour; repeatable")
	cmd.Flags().IntVar(&maxPages, "max-pages", slots.DefaultMaxPages, "months to scan, starting with the current one")
	return cmd
}
