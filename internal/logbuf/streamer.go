package logbuf

// Streamer drains a Buffer in caller-sized chunks across repeated calls.
// The cursor (line index plus byte offset within the line) survives
// between calls, so a line split across two chunks resumes mid-line with
// no duplication or loss. Each session owns its own Streamer; sessions
// never share cursor state.
type Streamer struct {
	buf   *Buffer
	count int // line count at session start
	line  int
	off   int
}

// NewStreamer starts a streaming session over the lines buffered right
// now. Lines appended while the session runs are not included; the log
// endpoint is a viewer, not a transactional export.
func (b *Buffer) NewStreamer() *Streamer {
	return &Streamer{buf: b, count: b.Len()}
}

// Read copies up to len(p) bytes of log text into p, each line followed
// by a newline, and returns how many bytes were written. A return of 0
// means the session is done. Concatenating the chunks of a full session
// yields every line joined by newlines regardless of chunk sizes.
func (s *Streamer) Read(p []byte) int {
	n := 0
	for n < len(p) && s.line < s.count {
		text := s.buf.Line(s.line)
		if s.off < len(text) {
			c := copy(p[n:], text[s.off:])
			n += c
			s.off += c
			continue
		}
		// Line content done; emit the terminator.
		p[n] = '\n'
		n++
		s.line++
		s.off = 0
	}
	return n
}

// Done reports whether the session has emitted everything.
func (s *Streamer) Done() bool {
	return s.line >= s.count
}
