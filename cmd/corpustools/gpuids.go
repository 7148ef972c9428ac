package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtcorpus/corpustools/internal/config"
	"github.com/mtcorpus/corpustools/internal/gpu"
)

// NewGPUIDsCmd creates the gpuids command.
func NewGPUIDsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gpuids",
		Short: "Print the ids of free GPUs",
		Long: `Gpuids queries nvidia-smi and prints the ids of the first free GPUs, joined
by commas, for use in CUDA_VISIBLE_DEVICES. A GPU is free when no process
runs on it.

Examples:
  CUDA_VISIBLE_DEVICES=$(corpustools gpuids -n 2) python train.py

  # Use a saved "nvidia-smi -q -x" report
  corpustools gpuids --from-file smi.xml`,
		Args: cobra.NoArgs,
		RunE: runGPUIDsCmd,
	}

	cmd.Flags().IntP("num-gpus", "n", config.DefaultNumGPUs,
		"Number of GPUs")
	cmd.Flags().String("from-file", "",
		"Read a saved nvidia-smi XML report instead of running nvidia-smi")
	cmd.Flags().String("command", config.DefaultGPUCommand,
		"GPU query command")

	return cmd
}

// runGPUIDsCmd executes the gpuids command.
func runGPUIDsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if err := setIfChanged(cmd, "num-gpus", &cfg.NumGPUs, flags.GetInt); err != nil {
		return err
	}
	if err := setIfChanged(cmd, "from-file", &cfg.GPUXMLFile, flags.GetString); err != nil {
		return err
	}
	if err := setIfChanged(cmd, "command", &cfg.GPUCommand, flags.GetString); err != nil {
		return err
	}

	if err := validate(cfg); err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg.Verbose)

	ctx, cancel := signalContext(cmd)
	defer cancel()

	var devices []gpu.Device
	if cfg.GPUXMLFile != "" {
		devices, err = gpu.DevicesFromFile(cfg.GPUXMLFile)
	} else {
		devices, err = gpu.NewQuerier(gpu.WithCommand(cfg.GPUCommand)).Devices(ctx)
	}
	if err != nil {
		return err
	}

	for _, d := range devices {
		logger.Debug("gpu", "index", d.Index, "busId", d.BusID, "name", d.Name, "processes", d.Processes)
	}

	ids, err := gpu.FreeIDs(devices, cfg.NumGPUs)
	if err != nil {
		return err
	}

	if len(ids) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), gpu.FormatIDs(ids))
	}
	return nil
}
