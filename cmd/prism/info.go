package main

import (
	"strconv"

	"charm.land/lipgloss/v2"
	"github.com/klauspost/cpuid/v2"
	"github.com/spf13/cobra"

	"github.com/taigrr/prism/pkg/models"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the CPU, worker count and built-in scenes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			row := func(k, v string) string {
				return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(k), valueStyle.Render(v))
			}
			lines := []string{
				titleStyle.Render("cpu"),
				row("brand", cpuid.CPU.BrandName),
				row("physical", strconv.Itoa(cpuid.CPU.PhysicalCores)),
				row("logical", strconv.Itoa(cpuid.CPU.LogicalCores)),
				row("avx2", strconv.FormatBool(cpuid.CPU.Supports(cpuid.AVX2))),
				row("workers", strconv.Itoa(a.cfg.Workers)),
				"",
				titleStyle.Render("scenes"),
			}
			for _, d := range models.Demos() {
				lines = append(lines, row(d.Name, d.Description))
			}
			_, err := lipgloss.Fprintln(cmd.OutOrStdout(), boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
			return err
		},
	}
}
