package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// 扬声器只能初始化一次，统一使用这个采样率，其它采样率的文件先重采样
const sampleRate beep.SampleRate = 44100

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker(rate beep.SampleRate, bufferSize int) error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(rate, bufferSize)
	})
	return speakerErr
}

// Player 提示音播放器。声音文件为空时使用合成的短促提示音。
// Play 本身不阻塞播放过程，但第一次调用需要解码文件，调用方应放在单独的 goroutine 里。
type Player struct {
	mu     sync.Mutex
	path   string
	volume float64
	buffer *beep.Buffer

	initSpeaker func(beep.SampleRate, int) error
	play        func(...beep.Streamer)
}

func NewPlayer(path string, volume float64) *Player {
	return &Player{
		path:        path,
		volume:      volume,
		initSpeaker: initSpeaker,
		play:        speaker.Play,
	}
}

// SetSource 更换声音文件，下次播放时重新加载
func (p *Player) SetSource(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if path != p.path {
		p.path = path
		p.buffer = nil
	}
}

// SetVolume 音量以 2 为底的指数表示，0 为原始音量
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	p.volume = v
	p.mu.Unlock()
}

func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.buffer == nil {
		buffer, err := p.load()
		if err != nil {
			return err
		}
		p.buffer = buffer
	}

	if err := p.initSpeaker(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	streamer := p.buffer.Streamer(0, p.buffer.Len())
	p.play(&effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   p.volume,
		Silent:   false,
	})
	return nil
}

func (p *Player) load() (*beep.Buffer, error) {
	format := beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}
	buffer := beep.NewBuffer(format)

	if p.path == "" {
		buffer.Append(Tone(880, 150*time.Millisecond))
		return buffer, nil
	}

	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("open sound: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		fileFmt  beep.Format
	)
	switch strings.ToLower(filepath.Ext(p.path)) {
	case ".mp3":
		streamer, fileFmt, err = mp3.Decode(f)
	default:
		streamer, fileFmt, err = wav.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", p.path, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if fileFmt.SampleRate != sampleRate {
		s = beep.Resample(4, fileFmt.SampleRate, sampleRate, streamer)
	}
	buffer.Append(s)
	return buffer, nil
}

// Tone 生成指定频率和时长的正弦波
func Tone(freq float64, d time.Duration) beep.Streamer {
	total := sampleRate.N(d)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			v := 0.3 * math.Sin(2*math.Pi*freq*float64(pos)/float64(sampleRate))
			samples[i][0], samples[i][1] = v, v
			pos++
			n++
		}
		return n, true
	})
}
