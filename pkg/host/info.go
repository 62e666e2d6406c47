package host

// Info identifies the host to the plugins it instantiates.
type Info struct {
	Name    string
	Vendor  string
	URL     string
	Version string
}
