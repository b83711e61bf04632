// Package widget builds and mounts the video + call-to-action widget.
package widget

// Element is a node in the host document.
type Element interface {
	Append(children ...Element)
}

// MediaElement is a playable element that reports its loaded metadata.
type MediaElement interface {
	Element
	OnLoadedMetadata(fn func(durationSeconds float64))
}

// Control is a clickable element.
type Control interface {
	Element
	OnClick(fn func())
}

// PlaybackOptions are the attributes of a native playback element.
type PlaybackOptions struct {
	Muted       bool
	Loop        bool
	Autoplay    bool
	PlaysInline bool
}

// RenderTarget creates elements and attaches subtrees in a host document.
type RenderTarget interface {
	CreateContainer(className string) Element
	CreateFrame(src, allow, className string) MediaElement
	CreateVideo(src string, opts PlaybackOptions, className string) MediaElement
	CreateButton(text, className string) Control
	// Attach appends el under the element with the given id and reports
	// whether such an element exists.
	Attach(anchorID string, el Element) bool
}
