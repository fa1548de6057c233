package jpeg

/*
#cgo pkg-config: libjpeg
#include <stdio.h>
#include <string.h>
#include <jpeglib.h>
#include <setjmp.h>

typedef struct {
    struct jpeg_error_mgr pub;
    jmp_buf               jmpbuf;
    char                  msg[JMSG_LENGTH_MAX];
} header_err_mgr;

static void header_error_exit(j_common_ptr cinfo) {
    header_err_mgr *e = (header_err_mgr *)cinfo->err;
    (*(cinfo->err->format_message))(cinfo, e->msg);
    longjmp(e->jmpbuf, 1);
}

// Only the SOF/SOS header is parsed; no scanlines are decoded.
static int read_header(const unsigned char *buf, unsigned long size,
                       int *components, int *color_space, int *progressive, char *errbuf) {
    struct jpeg_decompress_struct cinfo;
    header_err_mgr jerr;

    cinfo.err = jpeg_std_error(&jerr.pub);
    jerr.pub.error_exit = header_error_exit;
    if (setjmp(jerr.jmpbuf)) {
        strncpy(errbuf, jerr.msg, JMSG_LENGTH_MAX-1);
        jpeg_destroy_decompress(&cinfo);
        return -1;
    }

    jpeg_create_decompress(&cinfo);
    jpeg_mem_src(&cinfo, (unsigned char *)buf, size);
    jpeg_read_header(&cinfo, TRUE);

    *components = cinfo.num_components;
    *color_space = cinfo.jpeg_color_space;
    *progressive = cinfo.progressive_mode ? 1 : 0;

    jpeg_destroy_decompress(&cinfo);
    return 0;
}
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"
)

// Header describes how a JPEG carrier was stored. Dimensions and the ICC
// profile come from Decode.
type Header struct {
	Components  int
	ColorSpace  string
	Progressive bool
}

// ReadHeader parses the frame header of a JPEG without decoding it.
func ReadHeader(data []byte) (*Header, error) {
	if len(data) < 2 {
		return nil, errors.New("data too short for JPEG")
	}

	var components, colorSpace, progressive C.int
	var errbuf [C.JMSG_LENGTH_MAX]C.char
	if C.read_header((*C.uchar)(unsafe.Pointer(&data[0])), C.ulong(len(data)),
		&components, &colorSpace, &progressive, &errbuf[0]) != 0 {
		return nil, fmt.Errorf("libjpeg: %s", C.GoString(&errbuf[0]))
	}

	return &Header{
		Components:  int(components),
		ColorSpace:  colorSpaceName(int(colorSpace)),
		Progressive: progressive != 0,
	}, nil
}

// String renders the header for identify, e.g. "YCbCr, 3 components, baseline".
func (h *Header) String() string {
	mode := "baseline"
	if h.Progressive {
		mode = "progressive"
	}
	return fmt.Sprintf("%s, %d components, %s", h.ColorSpace, h.Components, mode)
}

// colorSpaceName maps libjpeg's J_COLOR_SPACE values.
func colorSpaceName(cs int) string {
	switch cs {
	case 1:
		return "Grayscale"
	case 2:
		return "RGB"
	case 3:
		return "YCbCr"
	case 4:
		return "CMYK"
	case 5:
		return "YCCK"
	default:
		return fmt.Sprintf("J_COLOR_SPACE(%d)", cs)
	}
}
