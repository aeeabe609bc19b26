package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhammadWasif/susi-linux/internal/config"
	"github.com/MuhammadWasif/susi-linux/internal/fault"
	"github.com/MuhammadWasif/susi-linux/pkg/reply"
)

type fakePlayer struct {
	calls  []string
	failOn string
}

func (f *fakePlayer) record(name string) error {
	f.calls = append(f.calls, name)
	if f.failOn == name {
		return errors.New(name + " failed")
	}
	return nil
}

func (f *fakePlayer) Volume(p int) error { return f.record("volume") }
func (f *fakePlayer) Pause() error       { return f.record("pause") }
func (f *fakePlayer) Resume() error      { return f.record("resume") }
func (f *fakePlayer) Restart() error     { return f.record("restart") }
func (f *fakePlayer) Next() error        { return f.record("next") }
func (f *fakePlayer) Previous() error    { return f.record("previous") }
func (f *fakePlayer) Shuffle() error     { return f.record("shuffle") }
func (f *fakePlayer) Stop() error        { return f.record("stop") }
func (f *fakePlayer) Play(ref string) error {
	f.calls = append(f.calls, "play:"+ref)
	return nil
}
func (f *fakePlayer) PlayYtb(key string) error {
	f.calls = append(f.calls, "playytb:"+key)
	return nil
}
func (f *fakePlayer) Say(path string) error  { return f.record("say") }
func (f *fakePlayer) Beep(path string) error { return f.record("beep") }
func (f *fakePlayer) RestoreSoftVolume() error {
	return f.record("restore")
}

type fakeSpeaker struct {
	spoken []string
	err    error
}

func (f *fakeSpeaker) Speak(_ context.Context, _ *config.Session, text string) error {
	if f.err != nil {
		return f.err
	}
	f.spoken = append(f.spoken, text)
	return nil
}

type fakePlanner struct {
	delays   []time.Duration
	payloads []reply.Reply
}

func (f *fakePlanner) AddEvent(delay time.Duration, payload reply.Reply) {
	f.delays = append(f.delays, delay)
	f.payloads = append(f.payloads, payload)
}

type fakeAsker struct {
	asked []string
	reply *reply.Reply
	err   error
}

func (f *fakeAsker) Ask(text, language string) (*reply.Reply, error) {
	f.asked = append(f.asked, text)
	return f.reply, f.err
}

type fakeLights struct{ states []string }

func (f *fakeLights) Off()    { f.states = append(f.states, "off") }
func (f *fakeLights) Think()  { f.states = append(f.states, "think") }
func (f *fakeLights) Speak()  { f.states = append(f.states, "speak") }
func (f *fakeLights) Wakeup() { f.states = append(f.states, "wakeup") }

type fakePins struct{ listening, speaking bool }

func (f *fakePins) SetListening(on bool) { f.listening = on }
func (f *fakePins) SetSpeaking(on bool)  { f.speaking = on }
func (f *fakePins) Reset()               { f.listening, f.speaking = false, false }

type fakeRenderer struct{ kinds []string }

func (f *fakeRenderer) ReceiveMessage(kind string, _ any) {
	f.kinds = append(f.kinds, kind)
}

type harness struct {
	d        *Dispatcher
	player   *fakePlayer
	speaker  *fakeSpeaker
	planner  *fakePlanner
	asker    *fakeAsker
	lights   *fakeLights
	pins     *fakePins
	renderer *fakeRenderer
	session  *config.Session
}

func newHarness() *harness {
	h := &harness{
		player:   &fakePlayer{},
		speaker:  &fakeSpeaker{},
		planner:  &fakePlanner{},
		asker:    &fakeAsker{},
		lights:   &fakeLights{},
		pins:     &fakePins{},
		renderer: &fakeRenderer{},
	}
	cfg := &config.Config{
		DataBaseDir:        "testdata",
		DetectionBellSound: "bell.mp3",
	}
	h.session = &config.Session{Language: "en_US", STT: config.STTCloud, TTS: config.TTSCloud}
	h.d = New(h.asker, h.speaker, h.planner, h.player, h.lights, h.pins, h.renderer, cfg)
	return h
}

func strp(s string) *string { return &s }

func TestStopSuppressesFallback(t *testing.T) {
	h := newHarness()

	err := h.d.HandleReply(h.session, &reply.Reply{Stop: true})
	require.NoError(t, err)

	assert.Contains(t, h.player.calls, "stop")
	assert.Empty(t, h.speaker.spoken, "stop must not produce a spoken fallback")
}

func TestFallbackSpokenExactlyOnce(t *testing.T) {
	h := newHarness()

	err := h.d.HandleReply(h.session, &reply.Reply{})
	require.NoError(t, err)

	require.Len(t, h.speaker.spoken, 1)
	assert.Equal(t, "I don't have an answer to this", h.speaker.spoken[0])
}

func TestNoFallbackWhenIdentifierPresent(t *testing.T) {
	h := newHarness()

	err := h.d.HandleReply(h.session, &reply.Reply{Identifier: strp("http://example/file.mp3")})
	require.NoError(t, err)

	assert.Empty(t, h.speaker.spoken)
	assert.Contains(t, h.player.calls, "play:http://example/file.mp3")
}

func TestIdentifierRouting(t *testing.T) {
	h := newHarness()

	err := h.d.HandleReply(h.session, &reply.Reply{Identifier: strp("ytd-04854XqcfCY")})
	require.NoError(t, err)
	assert.Contains(t, h.player.calls, "playytb:04854XqcfCY")

	h = newHarness()
	err = h.d.HandleReply(h.session, &reply.Reply{Identifier: strp("http://example/file.mp3")})
	require.NoError(t, err)
	assert.Contains(t, h.player.calls, "play:http://example/file.mp3")
}

func TestVolumeMarksNoAnswerNeeded(t *testing.T) {
	h := newHarness()
	vol := reply.Volume(10)

	err := h.d.HandleReply(h.session, &reply.Reply{Volume: &vol})
	require.NoError(t, err)

	assert.Contains(t, h.player.calls, "volume")
	assert.Contains(t, h.player.calls, "say")
	assert.Empty(t, h.speaker.spoken)
}

func TestMediaActions(t *testing.T) {
	for _, action := range []string{"pause", "resume", "restart", "next", "previous", "shuffle"} {
		h := newHarness()
		err := h.d.HandleReply(h.session, &reply.Reply{MediaAction: strp(action)})
		require.NoError(t, err, action)
		assert.Contains(t, h.player.calls, action)
		assert.Empty(t, h.speaker.spoken, "recognized media action suppresses fallback")
	}
}

func TestPauseReArmsIdleIndicator(t *testing.T) {
	h := newHarness()

	err := h.d.HandleReply(h.session, &reply.Reply{MediaAction: strp("pause")})
	require.NoError(t, err)

	assert.Equal(t, []string{"off", "wakeup"}, h.lights.states)
}

func TestUnknownMediaActionStillSpeaksFallback(t *testing.T) {
	h := newHarness()

	err := h.d.HandleReply(h.session, &reply.Reply{MediaAction: strp("yodel")})
	require.NoError(t, err)

	require.Len(t, h.speaker.spoken, 1)
	assert.Equal(t, "I don't have an answer to this", h.speaker.spoken[0])
}

func TestAnswerSpokenWithVisualBracket(t *testing.T) {
	h := newHarness()

	err := h.d.HandleReply(h.session, &reply.Reply{Answer: strp("hello there")})
	require.NoError(t, err)

	require.Equal(t, []string{"hello there"}, h.speaker.spoken)
	assert.Equal(t, []string{"off", "speak", "off"}, h.lights.states)
}

func TestLanguageSwitchAfterAnswer(t *testing.T) {
	h := newHarness()

	err := h.d.HandleReply(h.session, &reply.Reply{
		Answer:   strp("bonjour"),
		Language: strp("fr_FR"),
	})
	require.NoError(t, err)

	assert.Equal(t, "fr_FR", h.session.Language)
	assert.Equal(t, []string{"bonjour"}, h.speaker.spoken)
}

func TestLanguageUnchangedWhenSame(t *testing.T) {
	h := newHarness()

	err := h.d.HandleReply(h.session, &reply.Reply{Language: strp("en_US")})
	require.NoError(t, err)
	assert.Equal(t, "en_US", h.session.Language)
}

func TestTableSpeaksHeadAndFourRows(t *testing.T) {
	h := newHarness()

	err := h.d.HandleReply(h.session, &reply.Reply{Table: &reply.Table{
		Head: []string{"A", "B"},
		Data: [][]string{
			{"1", "2"}, {"3", "4"}, {"5", "6"}, {"7", "8"}, {"9", "10"},
		},
	}})
	require.NoError(t, err)

	want := []string{
		"I don't have an answer to this",
		"A", "B",
		"1", "2", "3", "4", "5", "6", "7", "8",
	}
	assert.Equal(t, want, h.speaker.spoken, "row five must never be spoken")
}

func TestRSSSpeaksCountTitles(t *testing.T) {
	h := newHarness()

	err := h.d.HandleReply(h.session, &reply.Reply{RSS: &reply.RSS{
		Entities: []reply.Entity{{Title: "one"}, {Title: "two"}, {Title: "three"}},
		Count:    2,
	}})
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"I don't have an answer to this", "one", "two"},
		h.speaker.spoken)
}

func TestPlannedActionsScheduledWithoutMarkingAnswered(t *testing.T) {
	h := newHarness()

	err := h.d.HandleReply(h.session, &reply.Reply{
		PlannedActions: []reply.PlannedAction{
			{PlanDelayMS: 2000, Payload: reply.Reply{Answer: strp("ALARM")}},
		},
	})
	require.NoError(t, err)

	require.Equal(t, []time.Duration{2 * time.Second}, h.planner.delays)
	require.Len(t, h.planner.payloads, 1)
	assert.Equal(t, "ALARM", *h.planner.payloads[0].Answer)
	// planning alone never counts as an answer
	assert.Equal(t, []string{"I don't have an answer to this"}, h.speaker.spoken)
}

func TestDispatchIsIdempotent(t *testing.T) {
	h := newHarness()
	r := &reply.Reply{Answer: strp("same thing")}

	require.NoError(t, h.d.HandleReply(h.session, r))
	require.NoError(t, h.d.HandleReply(h.session, r))

	assert.Equal(t, []string{"same thing", "same thing"}, h.speaker.spoken)
}

func TestMultipleFieldsAllProcessed(t *testing.T) {
	h := newHarness()

	err := h.d.HandleReply(h.session, &reply.Reply{
		Stop:       true,
		Answer:     strp("stopping now"),
		Identifier: strp("http://example/next.mp3"),
	})
	require.NoError(t, err)

	assert.Contains(t, h.player.calls, "stop")
	assert.Equal(t, []string{"stopping now"}, h.speaker.spoken)
	assert.Contains(t, h.player.calls, "play:http://example/next.mp3")
}

func TestHandleQuestionAsksThenDispatches(t *testing.T) {
	h := newHarness()
	h.asker.reply = &reply.Reply{Answer: strp("42")}

	err := h.d.HandleQuestion(h.session, "meaning of life")
	require.NoError(t, err)

	assert.Equal(t, []string{"meaning of life"}, h.asker.asked)
	assert.Equal(t, []string{"42"}, h.speaker.spoken)
}

func TestHandleQuestionPropagatesConnectionFault(t *testing.T) {
	h := newHarness()
	h.asker.err = fault.Errorf(fault.ConnectionError, "server down")

	err := h.d.HandleQuestion(h.session, "anyone there")
	require.Error(t, err)
	assert.Equal(t, fault.ConnectionError, fault.KindOf(err))
}

func TestSpeakerConnectionFaultAbortsDispatch(t *testing.T) {
	h := newHarness()
	h.speaker.err = fault.Errorf(fault.ConnectionError, "tts down")

	err := h.d.HandleReply(h.session, &reply.Reply{
		Answer:     strp("unreachable"),
		Identifier: strp("http://example/file.mp3"),
	})
	require.Error(t, err)
	assert.Equal(t, fault.ConnectionError, fault.KindOf(err))
	// later steps never ran
	assert.NotContains(t, h.player.calls, "play:http://example/file.mp3")
}

func TestSpeakingNotificationCarriesReply(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.d.HandleReply(h.session, &reply.Reply{Stop: true}))
	assert.Equal(t, []string{"speaking"}, h.renderer.kinds)
	assert.True(t, h.pins.speaking)
}
