package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pip2sysdep/internal/adapters"
	"pip2sysdep/internal/app"
	"pip2sysdep/internal/types"
)

// localNoFile is the value --local takes when no file is given.
const localNoFile = "search-path"

type convertOptions struct {
	Local        localFlag
	Separator    string
	Install      bool
	Command      string
	PrintCommand bool
	Requirements string
	Manifest     string
	ShowInput    bool
	Distro       string
	OSVersion    string
	BaseURL      string
	HTTPTimeout  time.Duration
	HTTPRetries  int
}

// localFlag implements --local[=file].
type localFlag struct {
	enabled bool
	file    string
}

func (f *localFlag) String() string {
	return f.file
}

func (f *localFlag) Set(value string) error {
	f.enabled = true
	if value != localNoFile {
		f.file = value
	}
	return nil
}

func (f *localFlag) Type() string {
	return "file"
}

func newConvertCommand() *cobra.Command {
	opts := convertOptions{}
	cmd := &cobra.Command{
		Use:   "pip2sysdep [flags] <pip-package> [<pip-package> ...]",
		Short: "Map Python packages to the system packages needed to build them",
		Long: `Map Python packages to the system packages needed to build them.

Package names may be combined with --txt or --toml; only one of the two can be
used at a time. Mappings are fetched from the upstream repository unless
--local is given.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), cmd, args, &opts)
		},
	}

	cmd.Flags().Var(&opts.Local, "local", "Use local mapping files, or the given mapping file")
	cmd.Flags().Lookup("local").NoOptDefVal = localNoFile
	cmd.Flags().StringVar(&opts.Separator, "separator", string(types.SeparatorNewline), "Output separator for system packages (space|newline)")
	cmd.Flags().BoolVar(&opts.Install, "install", false, "Run the system package install command")
	cmd.Flags().StringVar(&opts.Command, "command", types.InstallCommandName, "Command template used by --install and --print-command")
	cmd.Flags().BoolVar(&opts.PrintCommand, "print-command", false, "Print the rendered command instead of the package list")
	cmd.Flags().StringVar(&opts.Requirements, "txt", "", "Read Python package names from a requirements.txt-style file")
	cmd.Flags().StringVar(&opts.Manifest, "toml", "", "Read Python package names from pyproject.toml (PEP 621, Poetry or PDM)")
	cmd.Flags().BoolVar(&opts.ShowInput, "show-input", false, "Print the parsed Python package names and exit")
	cmd.Flags().StringVar(&opts.Distro, "distro", "", "Distribution id (detected when empty)")
	cmd.Flags().StringVar(&opts.OSVersion, "os-version", "", "Distribution version (detected when empty)")
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", adapters.DefaultMappingBaseURL, "Base URL of remote mapping files")
	cmd.Flags().DurationVar(&opts.HTTPTimeout, "http-timeout", 30*time.Second, "Timeout per remote request")
	cmd.Flags().IntVar(&opts.HTTPRetries, "http-retries", 3, "Attempts per remote request")

	_ = viper.BindPFlag("separator", cmd.Flags().Lookup("separator"))
	_ = viper.BindPFlag("command", cmd.Flags().Lookup("command"))
	_ = viper.BindPFlag("print_command", cmd.Flags().Lookup("print-command"))
	_ = viper.BindPFlag("distro", cmd.Flags().Lookup("distro"))
	_ = viper.BindPFlag("os_version", cmd.Flags().Lookup("os-version"))
	_ = viper.BindPFlag("base_url", cmd.Flags().Lookup("base-url"))
	_ = viper.BindPFlag("http_timeout", cmd.Flags().Lookup("http-timeout"))
	_ = viper.BindPFlag("http_retries", cmd.Flags().Lookup("http-retries"))
	viper.SetDefault("source", string(types.SourceModeRemote))

	return cmd
}

func runConvert(ctx context.Context, cmd *cobra.Command, args []string, opts *convertOptions) error {
	out := cmd.OutOrStdout()
	separator, err := parseSeparator(resolveString(cmd, opts.Separator, "separator", "separator"))
	if err != nil {
		return err
	}
	input := app.InputRequest{
		Packages:         args,
		RequirementsFile: opts.Requirements,
		ManifestFile:     opts.Manifest,
	}
	if len(args) == 0 && input.RequirementsFile == "" && input.ManifestFile == "" {
		_ = cmd.Usage()
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no python packages given")
	}

	printCommand := resolveBool(cmd, opts.PrintCommand, "print_command", "print-command")
	service := newAppService()
	if opts.ShowInput {
		packages, err := service.CollectPackages(ctx, input)
		if err != nil {
			return err
		}
		for _, pkg := range packages {
			fmt.Fprintln(out, pkg)
		}
		return nil
	}

	source, err := resolveSource(cmd, opts)
	if err != nil {
		return err
	}
	result, err := service.Convert(ctx, app.ConvertRequest{
		Input:         input,
		Source:        source,
		Distro:        resolveString(cmd, opts.Distro, "distro", "distro"),
		OSVersion:     resolveString(cmd, opts.OSVersion, "os_version", "os-version"),
		CommandName:   resolveString(cmd, opts.Command, "command", "command"),
		RenderCommand: opts.Install || printCommand,
	})
	if err != nil {
		return err
	}

	switch {
	case opts.Install:
		fmt.Fprintf(out, "Running: %s\n", result.Command)
		_, err := service.RunInstall(ctx, result.Command)
		return err
	case printCommand:
		fmt.Fprintln(out, result.Command)
	default:
		writePackages(out, result.SystemPackages, separator)
	}
	return nil
}

func resolveSource(cmd *cobra.Command, opts *convertOptions) (app.SourceRequest, error) {
	searchPaths, _ := cmd.Flags().GetStringSlice("search-path")
	req := app.SourceRequest{
		SearchPaths: resolveStrings(cmd, searchPaths, "search_paths", "search-path"),
		BaseURL:     resolveString(cmd, opts.BaseURL, "base_url", "base-url"),
		HTTPTimeout: resolveDuration(cmd, opts.HTTPTimeout, "http_timeout", "http-timeout"),
		HTTPRetries: resolveInt(cmd, opts.HTTPRetries, "http_retries", "http-retries"),
	}
	if opts.Local.enabled {
		req.Mode = types.SourceModeLocal
		req.MappingFile = opts.Local.file
		return req, nil
	}
	mode := types.SourceMode(strings.ToLower(strings.TrimSpace(viper.GetString("source"))))
	switch mode {
	case types.SourceModeLocal, types.SourceModeRemote:
		req.Mode = mode
	default:
		return app.SourceRequest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown source: %q (use 'local' or 'remote')", mode))
	}
	req.MappingFile = viper.GetString("mapping_file")
	return req, nil
}

func parseSeparator(value string) (types.Separator, error) {
	separator := types.Separator(strings.ToLower(strings.TrimSpace(value)))
	switch separator {
	case types.SeparatorSpace, types.SeparatorNewline:
		return separator, nil
	case "":
		return types.SeparatorNewline, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown separator: %q (use 'space' or 'newline')", value))
	}
}

func writePackages(out io.Writer, packages []string, separator types.Separator) {
	fmt.Fprintln(out, strings.Join(packages, separator.Joiner()))
}
