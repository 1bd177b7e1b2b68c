package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	warp "github.com/Sparky983/warp-config-sub000"
	"github.com/Sparky983/warp-config-sub000/diagnostic"
	"github.com/Sparky983/warp-config-sub000/schema"
)

var errInvalid = errors.New("configuration invalid")

func (a *app) newValidateCmd() *cobra.Command {
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration against a schema",
		Long: `Bind every source against a schema file and report every problem found.

Examples:
  warp validate --schema schema.yaml -c app.yaml
  warp validate --schema schema.yaml -c app.yaml --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runValidate(cmd, schemaPath)
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "schema file path")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func (a *app) builder(cmd *cobra.Command, schemaPath string, logger zerolog.Logger) (*warp.Builder[*schema.Instance], error) {
	contract, err := loadSchema(schemaPath)
	if err != nil {
		return nil, err
	}

	sources, err := a.sources(cmd.Context())
	if err != nil {
		return nil, err
	}

	b := warp.Bind(contract).WithLogger(logger).Strict(a.strict)
	for _, src := range sources {
		b.AddSource(src)
	}

	return b, nil
}

func (a *app) runValidate(cmd *cobra.Command, schemaPath string) error {
	logger, err := a.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	b, err := a.builder(cmd, schemaPath, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	inst, err := b.Build()
	if errs, ok := diagnostic.As(err); ok {
		fmt.Fprintf(out, "Configuration invalid:\n%s\n", errs.Error())
		return errInvalid
	}

	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Configuration valid")
	printValues(cmd, inst)

	return nil
}

func printValues(cmd *cobra.Command, inst *schema.Instance) {
	values := inst.Values()

	paths := make([]string, 0, len(values))
	for path := range values {
		paths = append(paths, path)
	}

	slices.Sort(paths)

	for _, path := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s = %v\n", path, values[path])
	}
}
