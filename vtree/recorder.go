package vtree

// RecordedFile is one resolved leaf captured by a Recorder.
type RecordedFile struct {
	Path    string
	Content []byte
	Binary  bool
}

// Recorder is a Sink that captures resolved entries in traversal order.
// It backs dry-run listings, export digests, and tests.
type Recorder struct {
	files []RecordedFile
}

// Files returns the captured entries in the order they arrived.
func (r *Recorder) Files() []RecordedFile {
	return r.files
}

func (r *Recorder) AddFile(name string, content []byte, binary bool) error {
	return recorderScope{r: r}.AddFile(name, content, binary)
}

func (r *Recorder) AddFolder(name string) (Sink, error) {
	return recorderScope{r: r}.AddFolder(name)
}

type recorderScope struct {
	r      *Recorder
	prefix string
}

func (s recorderScope) AddFile(name string, content []byte, binary bool) error {
	s.r.files = append(s.r.files, RecordedFile{
		Path:    s.prefix + name,
		Content: content,
		Binary:  binary,
	})
	return nil
}

func (s recorderScope) AddFolder(name string) (Sink, error) {
	return recorderScope{r: s.r, prefix: s.prefix + name + "/"}, nil
}

// Tee returns a Sink that forwards every entry to each sink in order.
// The first error stops the fan-out.
func Tee(sinks ...Sink) Sink {
	return teeSink(sinks)
}

type teeSink []Sink

func (t teeSink) AddFile(name string, content []byte, binary bool) error {
	for _, s := range t {
		if err := s.AddFile(name, content, binary); err != nil {
			return err
		}
	}
	return nil
}

func (t teeSink) AddFolder(name string) (Sink, error) {
	children := make(teeSink, 0, len(t))
	for _, s := range t {
		child, err := s.AddFolder(name)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}
