package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/file-converter/internal/catalog"
	"github.com/pdiddy/file-converter/internal/convert"
	"github.com/pdiddy/file-converter/internal/download"
	"github.com/pdiddy/file-converter/internal/encode"
	"github.com/pdiddy/file-converter/internal/history"
	"github.com/pdiddy/file-converter/internal/intake"
	"github.com/pdiddy/file-converter/internal/remote"
	"github.com/pdiddy/file-converter/internal/session"
	"github.com/pdiddy/file-converter/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file> [files...]",
	Short: "Upload a file and convert it to a target image format",
	Long: `Convert uploads one image to the conversion service and asks for it to be
converted. Passing several files behaves like dropping them: only the first
is used.

Without --to, the target format is suggested from the file extension: a .jpg
file becomes png, any other recognized image becomes jpg. Files with other
extensions need --to.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("to", "", "target format: "+joinIDs())
	convertCmd.Flags().Bool("download", false, "save the converted file into the output directory")
	convertCmd.Flags().Bool("force", false, "overwrite an existing output file when downloading")
	convertCmd.Flags().String("output-dir", "", "directory for downloaded results (default from config or .)")
	convertCmd.Flags().StringP("output", "o", "text", "result output: text, json, or yaml")

	viper.BindPFlag("output_dir", convertCmd.Flags().Lookup("output-dir"))

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	target, _ := cmd.Flags().GetString("to")
	wantDownload, _ := cmd.Flags().GetBool("download")
	force, _ := cmd.Flags().GetBool("force")
	output, _ := cmd.Flags().GetString("output")
	if output != "text" && output != "json" && output != "yaml" {
		return fmt.Errorf("unsupported output %q (want text, json, or yaml)", output)
	}

	cfg := loadConfig()
	client, err := remote.NewClient(cfg.Service)
	if err != nil {
		return err
	}

	opts := []convert.Option{convert.WithLogger(logger)}
	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History)
		if err != nil {
			logger.Warn("history disabled", "error", err)
		} else {
			defer store.Close()
			opts = append(opts, convert.WithRecorder(store))
		}
	}

	fs := afero.NewOsFs()
	o := convert.New(session.NewToken(), intake.New(fs), encode.NewBase64(fs), client, opts...)

	// Progress goes to stderr when stdout carries structured output.
	progress := cmd.OutOrStdout()
	if output != "text" {
		progress = cmd.ErrOrStderr()
	}
	unsubscribe := o.Session().Subscribe(progressPrinter(progress))
	defer unsubscribe()

	var src intake.Source = intake.Picker{Path: args[0]}
	if len(args) > 1 {
		src = intake.Drop{Files: args}
	}
	if _, err := o.SelectFile(src); err != nil {
		return err
	}
	if target != "" {
		if err := o.ChooseFormat(target); err != nil {
			return fmt.Errorf("%w (want one of %s)", err, joinIDs())
		}
	}

	result, err := o.HandleConvert(cmd.Context())
	if err != nil {
		return err
	}

	st := o.Session().Snapshot()
	if output != "text" {
		if err := printResult(cmd.OutOrStdout(), output, result); err != nil {
			return err
		}
	}

	if !wantDownload {
		return nil
	}
	d := download.New(fs, &http.Client{Timeout: cfg.Download.Timeout}, cfg.Download)
	_, err = d.Save(cmd.Context(), download.Request{
		Session:      o.Token().String(),
		ConversionID: st.ConversionID,
		SourceName:   st.File.Name,
		Format:       st.Format,
		Result:       result,
		Overwrite:    force,
	}, progress)
	return err
}

// progressPrinter prints one line per phase change.
func progressPrinter(w io.Writer) func(session.State) {
	var last session.Phase
	return func(st session.State) {
		if st.Phase == last {
			return
		}
		last = st.Phase
		switch st.Phase {
		case session.PhaseFileSelected:
			if st.Format != "" {
				fmt.Fprintf(w, "selected: %s (%d bytes, target %s)\n", st.File.Name, st.File.Size, st.Format)
			} else {
				fmt.Fprintf(w, "selected: %s (%d bytes)\n", st.File.Name, st.File.Size)
			}
		case session.PhaseUploading:
			fmt.Fprintf(w, "uploading: %s\n", st.File.Name)
		case session.PhaseConverting:
			fmt.Fprintf(w, "converting: %s -> %s\n", st.ConversionID, st.Format)
		case session.PhaseSucceeded:
			fmt.Fprintf(w, "converted: %s\n", st.Result.DownloadURL)
		case session.PhaseFailed:
			fmt.Fprintf(w, "failed: %s\n", st.Message)
		}
	}
}

// printResult writes the whole convert response body as json or yaml.
func printResult(w io.Writer, output string, result types.ConversionResult) error {
	if output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fields := result.Fields
	if fields == nil {
		fields = map[string]any{"download_url": result.DownloadURL}
	}
	data, err := yaml.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func joinIDs() string {
	return strings.Join(catalog.IDs(), ", ")
}
