// Package imageio writes rendered fractal images to disk.
//
// The output format is chosen from the file extension: PNG, JPEG, BMP and
// TIFF are supported. Downscale resamples a supersampled render to a
// smaller image with a Catmull-Rom filter.
package imageio
