// Package pixel ingests decoded images into Mats.
//
// A Buffer carries raw interleaved pixel bytes with their shape. Decode and
// ImageCache produce Buffers from encoded files; FromImageData accepts the
// {width, height, data} records browsers and decoders hand over. Wrap moves
// a Buffer's bytes into an Owned Mat without copying:
//
//	buf, _, err := pixel.Decode(f)
//	if err != nil {
//	    return err
//	}
//	m, err := buf.Wrap() // m is CV_8UC4, buf is now empty
//	if err != nil {
//	    return err
//	}
//	defer m.Release()
//
// ToImage goes the other way for 8-bit Mats.
package pixel
