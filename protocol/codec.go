package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"snakearena/game"
)

// MaxLineLength 单行允许的最大字节数（不含换行）
const MaxLineLength = 64 << 10

// MaxNameLength 玩家名最大字符数
const MaxNameLength = 16

// ErrLineTooLong 缓冲区里积累的未完成行超过上限
var ErrLineTooLong = errors.New("protocol: line too long")

// Framer 每个连接独占的接收缓冲，按 '\n' 切分完整行
type Framer struct {
	buf []byte
}

// Feed 追加收到的字节；未完成的行保留到下一次 Feed
func (f *Framer) Feed(b []byte) error {
	f.buf = append(f.buf, b...)
	if len(f.buf) > MaxLineLength && bytes.IndexByte(f.buf, '\n') < 0 {
		return ErrLineTooLong
	}
	return nil
}

// Next 取出下一行（去掉行尾 "\n" 和 "\r"），没有完整行时 ok=false
func (f *Framer) Next() (line string, ok bool) {
	i := bytes.IndexByte(f.buf, '\n')
	if i < 0 {
		return "", false
	}
	line = string(bytes.TrimRight(f.buf[:i], "\r"))
	f.buf = f.buf[i+1:]
	if len(f.buf) == 0 {
		f.buf = nil
	}
	return line, true
}

// Buffered 尚未成行的字节数
func (f *Framer) Buffered() int { return len(f.buf) }

// CommandMessage 客户端移动指令：{"moving":"up"}
type CommandMessage struct {
	Moving string `json:"moving"`
}

// ParseCommand 解析一行移动指令；无法识别的行返回 ok=false
func ParseCommand(line string) (game.Direction, bool) {
	var cm CommandMessage
	if err := json.Unmarshal([]byte(line), &cm); err != nil {
		return game.DirNone, false
	}
	return game.ParseDirection(cm.Moving)
}

// ParseName 握手首行即玩家名
func ParseName(line string) string {
	name := strings.TrimSpace(line)
	if name == "" {
		return "player"
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}
	return name
}

// AppendLine 将 v 编码为一行 JSON 追加到 buf
func AppendLine(buf []byte, v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return buf, fmt.Errorf("encode %T: %w", v, err)
	}
	buf = append(buf, b...)
	return append(buf, '\n'), nil
}

// Handshake 握手回复：id、竞技场尺寸、所有墙、所有道具，每项一行
func Handshake(id, size int, walls []*game.Wall, powerups []*game.PowerUp) ([]byte, error) {
	buf := make([]byte, 0, 256+64*(len(walls)+len(powerups)))
	buf = strconv.AppendInt(buf, int64(id), 10)
	buf = append(buf, '\n')
	buf = strconv.AppendInt(buf, int64(size), 10)
	buf = append(buf, '\n')
	var err error
	for _, w := range walls {
		if buf, err = AppendLine(buf, w); err != nil {
			return nil, err
		}
	}
	for _, p := range powerups {
		if buf, err = AppendLine(buf, p); err != nil {
			return nil, err
		}
	}
	return buf, nil
}
