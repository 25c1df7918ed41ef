package vybiumstark

import "testing"

func TestConfigValidate(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		if err := DefaultConfig().Validate(); err != nil {
			t.Errorf("DefaultConfig().Validate() returned error: %v", err)
		}
	})

	t.Run("BadModulus", func(t *testing.T) {
		cfg := DefaultConfig().WithFieldModulus("not-a-number")
		if err := cfg.Validate(); err == nil {
			t.Error("expected an error for a non-numeric modulus")
		}
	})

	t.Run("TooSmallModulus", func(t *testing.T) {
		cfg := DefaultConfig().WithFieldModulus("1")
		if err := cfg.Validate(); err == nil {
			t.Error("expected an error for a modulus <= 2")
		}
	})

	t.Run("NonPowerOfTwoCompositionBlowup", func(t *testing.T) {
		cfg := DefaultConfig().WithCompositionBlowup(3)
		if err := cfg.Validate(); err == nil {
			t.Error("expected an error for a non-power-of-two composition blowup")
		}
	})

	t.Run("EvaluationBlowupBelowComposition", func(t *testing.T) {
		cfg := DefaultConfig().WithCompositionBlowup(16).WithEvaluationBlowup(8)
		if err := cfg.Validate(); err == nil {
			t.Error("expected an error when evaluation blowup is below composition blowup")
		}
	})

	t.Run("EvaluationBlowupBelowTwiceComposition", func(t *testing.T) {
		cfg := DefaultConfig().WithCompositionBlowup(8).WithEvaluationBlowup(8)
		if err := cfg.Validate(); err == nil {
			t.Error("expected an error when evaluation blowup is less than 2x composition blowup")
		}
	})

	t.Run("EvaluationBlowupTooLarge", func(t *testing.T) {
		cfg := DefaultConfig().WithCompositionBlowup(4).WithEvaluationBlowup(64)
		if err := cfg.Validate(); err == nil {
			t.Error("expected an error when evaluation blowup exceeds 32")
		}
	})

	t.Run("ZeroExeQueries", func(t *testing.T) {
		cfg := DefaultConfig().WithExeQueryCount(0)
		if err := cfg.Validate(); err == nil {
			t.Error("expected an error for zero execution queries")
		}
	})

	t.Run("ExeQueriesTooMany", func(t *testing.T) {
		cfg := DefaultConfig().WithExeQueryCount(129)
		if err := cfg.Validate(); err == nil {
			t.Error("expected an error for an execution query count above 128")
		}
	})

	t.Run("ZeroFriQueries", func(t *testing.T) {
		cfg := DefaultConfig().WithFriQueryCount(0)
		if err := cfg.Validate(); err == nil {
			t.Error("expected an error for zero FRI queries")
		}
	})

	t.Run("FriQueriesTooMany", func(t *testing.T) {
		cfg := DefaultConfig().WithFriQueryCount(65)
		if err := cfg.Validate(); err == nil {
			t.Error("expected an error for a FRI query count above 64")
		}
	})

	t.Run("UnknownHashFunction", func(t *testing.T) {
		cfg := DefaultConfig().WithHashFunction("md5")
		if err := cfg.Validate(); err == nil {
			t.Error("expected an error for an unsupported hash function")
		}
	})
}

func TestConfigClone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.ExeQueryCount = 999

	if cfg.ExeQueryCount == 999 {
		t.Error("Clone did not produce an independent copy")
	}
}
