package cmd

import (
	"testing"
)

func TestNewDoctorCmd(t *testing.T) {
	doctorCmd := newDoctorCmd()

	if doctorCmd.Use != "doctor" {
		t.Errorf("Expected Use to be 'doctor', got %s", doctorCmd.Use)
	}

	if doctorCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}

	if doctorCmd.RunE == nil {
		t.Error("Expected RunE function to be set")
	}
}
