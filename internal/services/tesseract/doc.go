// Package tesseract runs the tesseract CLI over extracted subtitle frames to
// recover text from image-based subtitle tracks.
package tesseract
