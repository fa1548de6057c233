package jpeg

/*
#cgo pkg-config: libjpeg
#include <stdio.h>
#include <stdlib.h>
#include <string.h>
#include <jpeglib.h>
#include <setjmp.h>

typedef struct {
    struct jpeg_error_mgr pub;
    jmp_buf               jmpbuf;
    char                  msg[JMSG_LENGTH_MAX];
} carrier_err_mgr;

static void carrier_error_exit(j_common_ptr cinfo) {
    carrier_err_mgr *e = (carrier_err_mgr *)cinfo->err;
    (*(cinfo->err->format_message))(cinfo, e->msg);
    longjmp(e->jmpbuf, 1);
}

typedef struct {
    unsigned char *data;
    unsigned int   len;
} carrier_marker;

typedef struct {
    int            width;
    int            height;
    int            num_components;
    unsigned char *pixels;       // RGB scanlines
    unsigned long  pixels_size;
    int            has_error;
    char           error_msg[256];
} carrier_result;

static carrier_result decode_carrier(const unsigned char *buf, unsigned long buf_size,
                                     carrier_marker *markers, int max_markers, int *marker_count) {
    carrier_result res;
    memset(&res, 0, sizeof(res));
    *marker_count = 0;

    struct jpeg_decompress_struct cinfo;
    carrier_err_mgr jerr;

    cinfo.err = jpeg_std_error(&jerr.pub);
    jerr.pub.error_exit = carrier_error_exit;

    if (setjmp(jerr.jmpbuf)) {
        strncpy(res.error_msg, jerr.msg, sizeof(res.error_msg)-1);
        res.has_error = 1;
        jpeg_destroy_decompress(&cinfo);
        return res;
    }

    jpeg_create_decompress(&cinfo);
    jpeg_save_markers(&cinfo, JPEG_APP0+2, 0xFFFF); // APP2 for ICC
    jpeg_mem_src(&cinfo, (unsigned char *)buf, buf_size);
    jpeg_read_header(&cinfo, TRUE);

    // Grayscale and YCbCr sources both come out as RGB
    cinfo.out_color_space = JCS_RGB;

    jpeg_start_decompress(&cinfo);

    res.width = cinfo.output_width;
    res.height = cinfo.output_height;
    res.num_components = cinfo.output_components;

    res.pixels_size = (unsigned long)res.width * res.height * res.num_components;
    res.pixels = (unsigned char *)malloc(res.pixels_size);
    if (res.pixels == NULL) {
        strncpy(res.error_msg, "malloc failed for pixel buffer", sizeof(res.error_msg)-1);
        res.has_error = 1;
        jpeg_destroy_decompress(&cinfo);
        return res;
    }

    int row_stride = res.width * res.num_components;
    while (cinfo.output_scanline < cinfo.output_height) {
        unsigned char *row = res.pixels + cinfo.output_scanline * row_stride;
        jpeg_read_scanlines(&cinfo, &row, 1);
    }

    jpeg_saved_marker_ptr m = cinfo.marker_list;
    int count = 0;
    while (m != NULL && count < max_markers) {
        if (m->marker == (JPEG_APP0+2) && m->data_length > 0) {
            markers[count].data = (unsigned char *)malloc(m->data_length);
            if (markers[count].data != NULL) {
                memcpy(markers[count].data, m->data, m->data_length);
                markers[count].len = m->data_length;
                count++;
            }
        }
        m = m->next;
    }
    *marker_count = count;

    jpeg_finish_decompress(&cinfo);
    jpeg_destroy_decompress(&cinfo);
    return res;
}

static void free_carrier_markers(carrier_marker *markers, int count) {
    for (int i = 0; i < count; i++) {
        free(markers[i].data);
    }
}

static void free_carrier_pixels(unsigned char *p) {
    free(p);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/s0shaw/cin/internal/ir"
)

// LibjpegVersion returns the JPEG library version.
func LibjpegVersion() int {
	return int(C.JPEG_LIB_VERSION)
}

// Decoded holds a JPEG carrier decoded into the codec's pixel layout.
type Decoded struct {
	Pixels *ir.PixelBuffer // BGR interleaved
	ICC    []byte          // extracted ICC profile, nil if absent
}

// Decode decodes a JPEG file from memory into a 3-channel BGR buffer.
// JPEG is only ever read: re-encoding a stego-image as JPEG destroys the
// hidden bits.
func Decode(data []byte) (*Decoded, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("data too short for JPEG")
	}

	const maxMarkers = 256
	var cMarkers [maxMarkers]C.carrier_marker
	var markerCount C.int

	res := C.decode_carrier(
		(*C.uchar)(unsafe.Pointer(&data[0])),
		C.ulong(len(data)),
		&cMarkers[0],
		C.int(maxMarkers),
		&markerCount,
	)

	defer C.free_carrier_markers(&cMarkers[0], markerCount)

	if res.has_error != 0 {
		return nil, fmt.Errorf("libjpeg decode: %s", C.GoString(&res.error_msg[0]))
	}

	defer C.free_carrier_pixels(res.pixels)

	width, height := int(res.width), int(res.height)
	if int(res.num_components) != 3 {
		return nil, fmt.Errorf("libjpeg produced %d components, expected 3", int(res.num_components))
	}

	buf, err := ir.NewPixelBuffer(height, width, 3)
	if err != nil {
		return nil, err
	}
	rgb := unsafe.Slice((*byte)(unsafe.Pointer(res.pixels)), int(res.pixels_size))
	for i := 0; i+2 < len(rgb); i += 3 {
		buf.Pix[i] = rgb[i+2]
		buf.Pix[i+1] = rgb[i+1]
		buf.Pix[i+2] = rgb[i]
	}

	var app2Markers [][]byte
	for i := 0; i < int(markerCount); i++ {
		m := cMarkers[i]
		app2Markers = append(app2Markers, C.GoBytes(unsafe.Pointer(m.data), C.int(m.len)))
	}

	icc, err := ExtractICC(app2Markers)
	if err != nil {
		return nil, fmt.Errorf("extracting ICC: %w", err)
	}

	return &Decoded{Pixels: buf, ICC: icc}, nil
}
