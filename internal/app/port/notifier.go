package port

// TrayNotifier is the one-way channel used to push a freshly formatted,
// currency-converted portfolio total to a presentation surface.
type TrayNotifier interface {
	PublishTotal(formattedTotal string)
}
