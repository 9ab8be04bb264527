package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

func newShowCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the configuration and section titles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.runtime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			content, err := rt.Service.GetAll(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(content)
			}

			keys := make([]string, 0, len(content.Config))
			for k := range content.Config {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CONFIG\tVALUE")
			for _, k := range keys {
				fmt.Fprintf(w, "%s\t%s\n", k, content.Config[k])
			}
			w.Flush()

			fmt.Fprintf(out, "\nSECTIONS (%d)\n", content.Sections.Len())
			for _, title := range content.Sections.Titles() {
				fmt.Fprintf(out, "  %s\n", title)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newGetCmd(opts *globalOptions) *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "get <section>",
		Short: "Print the body of a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.runtime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			var body string
			if asHTML {
				body, err = rt.Service.RenderSection(cmd.Context(), args[0])
			} else {
				body, err = rt.Service.GetSection(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), body)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "render the section to sanitized HTML")
	return cmd
}

func newSetConfigCmd(opts *globalOptions) *cobra.Command {
	var patch struct {
		contactEmail string
		heroTitle    string
		heroSubtitle string
	}

	cmd := &cobra.Command{
		Use:   "set-config",
		Short: "Update configuration values; omitted flags are left unchanged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if patch.contactEmail == "" && patch.heroTitle == "" && patch.heroSubtitle == "" {
				return fmt.Errorf("nothing to update: pass at least one of --contact-email, --hero-title, --hero-subtitle")
			}

			rt, err := opts.runtime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			cfg, err := rt.Service.UpdateConfig(cmd.Context(), portfolio.Config{
				portfolio.KeyContactEmail: patch.contactEmail,
				portfolio.KeyHeroTitle:    patch.heroTitle,
				portfolio.KeyHeroSubtitle: patch.heroSubtitle,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	}
	cmd.Flags().StringVar(&patch.contactEmail, "contact-email", "", "contact form recipient")
	cmd.Flags().StringVar(&patch.heroTitle, "hero-title", "", "landing page title")
	cmd.Flags().StringVar(&patch.heroSubtitle, "hero-subtitle", "", "landing page subtitle")
	return cmd
}

func newSetSectionCmd(opts *globalOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "set-section <title>",
		Short: "Replace or append a section with markdown from a file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required (use - for stdin)")
			}

			var (
				body []byte
				err  error
			)
			if file == "-" {
				body, err = io.ReadAll(cmd.InOrStdin())
			} else {
				body, err = os.ReadFile(file)
			}
			if err != nil {
				return fmt.Errorf("failed to read section body: %w", err)
			}

			rt, err := opts.runtime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			section, err := rt.Service.UpdateSection(cmd.Context(), args[0], string(body))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated section %q (%d bytes)\n", section.Title, len(section.Body))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "markdown file with the new body, - for stdin")
	return cmd
}

// exportedContent is the static-build snapshot written by export
type exportedContent struct {
	Config   portfolio.Config    `json:"config"`
	Sections *portfolio.Sections `json:"sections"`
}

func newExportCmd(opts *globalOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the parsed configuration and sections as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.runtime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			content, err := rt.Service.GetAll(cmd.Context())
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(exportedContent{Config: content.Config, Sections: content.Sections}, "", "  ")
			if err != nil {
				return err
			}
			data = append(data, '\n')

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d sections to %s\n", content.Sections.Len(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, stdout when empty or -")
	return cmd
}
