// Package capture adapts the external collaborators of the locker: the
// camera that yields frames and the landmark detector that turns a frame
// into faces.
//
// Recordings are JSON Lines files, one frame per line:
//
//	{"image":"<base64>","faces":[{"box":[x,y,w,h],"points":[[x,y],...]}]}
//
// [ReplayCamera] plays them back. [EmbeddedDetector] trusts the faces stored
// in each line; [ProcessDetector] hands the image to an external detector.
package capture
