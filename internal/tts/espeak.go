package tts

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <string.h>
#include <espeak-ng/speak_lib.h>

int
espeak_say(const char *text, const char *lang)
{
	if (!text)
	{ return -1; }

	espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0);
	espeak_VOICE specs;
	memset(&specs, 0, sizeof(specs));
	specs.languages = lang && lang[0] ? lang : "en";
	espeak_SetVoiceByProperties(&specs);

	espeak_Synth(text, strlen(text) + 1, 0, 0, 0, espeakCHARS_AUTO, NULL, NULL);
	espeak_Synchronize();
	espeak_Terminate();

	return 0;
}
*/
import "C"

import (
	"context"
	"fmt"
	"strings"
	"unsafe"
)

// Espeak is the offline synthesizer. It needs no network and is the
// downgrade target when the cloud voice becomes unreachable.
type Espeak struct{}

func NewEspeak() *Espeak { return &Espeak{} }

func (e *Espeak) Speak(_ context.Context, text, language string) error {
	if text == "" {
		return nil
	}

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))
	clang := C.CString(espeakLang(language))
	defer C.free(unsafe.Pointer(clang))

	rc := C.espeak_say(ctext, clang)
	if rc != 0 {
		return fmt.Errorf("espeak_say failed: %d", int(rc))
	}

	return nil
}

// espeakLang maps a locale like "en_US" to an espeak voice code.
func espeakLang(lang string) string {
	lang = strings.ToLower(strings.ReplaceAll(lang, "_", "-"))
	if i := strings.IndexByte(lang, '-'); i > 0 {
		lang = lang[:i]
	}
	return lang
}
