package event

// Topics published by browsermotion components.
const (
	TopicKeybindsReload Topic = "keybinds.reload"
	TopicPickerStart    Topic = "picker.start"
	TopicPickerStop     Topic = "picker.stop"
	TopicPickerSelected Topic = "picker.selected"
	TopicTopbarToggle   Topic = "topbar.toggle"
)

// KeybindsReload asks listeners to reload the keybind table for Host.
// An empty Host means every host.
type KeybindsReload struct {
	Host string
}

// PickerStart and PickerStop carry no data.
type (
	PickerStart struct{}
	PickerStop  struct{}
)

// PickerSelected carries the selector synthesized for the clicked element.
type PickerSelected struct {
	Selector string
}

// TopbarToggle carries no data.
type TopbarToggle struct{}
