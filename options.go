package strhash

// Option is a functional option for configuring a Builder.
type Option func(*config)

// DuplicatePolicy decides what Builder.Add does with a key already present.
type DuplicatePolicy uint8

const (
	// Replace keeps the value from the most recent Add.
	Replace DuplicatePolicy = iota

	// Reject makes Add return ErrDuplicateKey and keep the existing value.
	Reject
)

type config struct {
	hashFunc   HashFunc
	workers    int
	duplicates DuplicatePolicy
}

func defaultConfig() *config {
	return &config{
		hashFunc: DJB1,
		workers:  1, // Sequential search; use WithWorkers(n) to fan out salts
	}
}

// WithHashFunc selects the hash function variant the table is tuned with.
// Default is DJB1.
func WithHashFunc(f HashFunc) Option {
	return func(c *config) {
		c.hashFunc = f
	}
}

// WithWorkers sets how many goroutines evaluate salts concurrently during
// the tuning search. The chosen configuration does not depend on n.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithDuplicatePolicy sets how Add treats a key that is already present.
// Default is Replace.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(c *config) {
		c.duplicates = p
	}
}
