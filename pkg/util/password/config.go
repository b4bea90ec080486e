package password

import "github.com/Alijeyrad/medbook_backend/config"

// Config holds Argon2id password hashing parameters
type Config struct {
	// Memory usage in KiB (64 MiB default)
	MemoryKiB uint32

	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32

	// LowMemoryMode caps memory at 32 MiB for constrained environments
	LowMemoryMode bool
}

// ToParams converts Config to Params, filling zero fields from the defaults.
func (c Config) ToParams() Params {
	d := DefaultConfig()
	if c.MemoryKiB == 0 {
		c.MemoryKiB = d.MemoryKiB
	}
	if c.Iterations == 0 {
		c.Iterations = d.Iterations
	}
	if c.Parallelism == 0 {
		c.Parallelism = d.Parallelism
	}
	if c.SaltLength == 0 {
		c.SaltLength = d.SaltLength
	}
	if c.KeyLength == 0 {
		c.KeyLength = d.KeyLength
	}

	memory := c.MemoryKiB
	if c.LowMemoryMode && memory > 32*1024 {
		memory = 32 * 1024
	}

	return Params{
		Memory:      memory,
		Iterations:  c.Iterations,
		Parallelism: c.Parallelism,
		SaltLength:  c.SaltLength,
		KeyLength:   c.KeyLength,
	}
}

func DefaultConfig() Config {
	return Config{
		MemoryKiB:   64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// FromCentralConfig converts central config.PasswordConfig to package Config
func FromCentralConfig(c config.PasswordConfig) Config {
	return Config{
		MemoryKiB:     c.MemoryKiB,
		Iterations:    c.Iterations,
		Parallelism:   c.Parallelism,
		SaltLength:    c.SaltLength,
		KeyLength:     c.KeyLength,
		LowMemoryMode: c.LowMemoryMode,
	}
}
