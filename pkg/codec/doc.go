// Package codec wraps msgpack encoding for dqp's on-disk formats.
//
// Queue segments and cache files hold msgpack values concatenated
// back-to-back with no extra framing; msgpack is self-delimiting, so a
// Decoder can walk a file sequentially and stop cleanly at io.EOF.
//
// Decoding is "loose": integers come back as int64, floats as float64 and
// maps as map[string]any, so a value written from a map round-trips to a
// comparable shape regardless of how small the original integer was.
package codec
