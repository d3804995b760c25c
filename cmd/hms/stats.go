package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/hms/internal/repository/file"
)

func statsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print record counts and ID counters from the data file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			snap, err := file.Load(cfg.DataFile)
			if err != nil {
				return err
			}

			counts := snap.Counts()
			c := snap.Counters
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Data file: %s\n", cfg.DataFile)
			fmt.Fprintf(out, "%-14s %8s %8s\n", "COLLECTION", "RECORDS", "NEXT ID")
			fmt.Fprintf(out, "%-14s %8d %8d\n", "patients", counts.Patients, c.NextPatientID)
			fmt.Fprintf(out, "%-14s %8d %8d\n", "diseases", counts.Diseases, c.NextDiseaseID)
			fmt.Fprintf(out, "%-14s %8d %8d\n", "doctors", counts.Doctors, c.NextDoctorID)
			fmt.Fprintf(out, "%-14s %8d %8d\n", "appointments", counts.Appointments, c.NextAppointmentID)
			return nil
		},
	}
}
