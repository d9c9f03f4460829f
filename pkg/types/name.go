package types

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// ============================================================================
//                              Component - 名称分量
// ============================================================================

// Component 名称分量
//
// 不透明的二进制值。外部表示使用 NDN URI 转义规则：
// 字母、数字和 "-._~" 直接输出，其余字节输出为 %XX。
type Component struct {
	value []byte
}

// NewComponent 从字节创建名称分量（拷贝输入）
func NewComponent(value []byte) Component {
	v := make([]byte, len(value))
	copy(v, value)
	return Component{value: v}
}

// ComponentFromString 从字符串创建名称分量
func ComponentFromString(s string) Component {
	return Component{value: []byte(s)}
}

// ComponentFromNumber 从非负整数创建名称分量
//
// 使用大端变长编码（1/2/4/8 字节），与 ToNumber 互逆。
func ComponentFromNumber(n uint64) Component {
	var buf []byte
	switch {
	case n <= 0xff:
		buf = []byte{byte(n)}
	case n <= 0xffff:
		buf = make([]byte, 2)
		binary.BigEndian.PutUint16(buf, uint16(n))
	case n <= 0xffffffff:
		buf = make([]byte, 4)
		binary.BigEndian.PutUint32(buf, uint32(n))
	default:
		buf = make([]byte, 8)
		binary.BigEndian.PutUint64(buf, n)
	}
	return Component{value: buf}
}

// Value 返回分量的字节值（拷贝）
func (c Component) Value() []byte {
	v := make([]byte, len(c.value))
	copy(v, c.value)
	return v
}

// ValueRef 返回分量字节值的引用（调用方不得修改）
func (c Component) ValueRef() []byte {
	return c.value
}

// Size 返回分量字节长度
func (c Component) Size() int {
	return len(c.value)
}

// Equal 比较两个分量是否相等
func (c Component) Equal(other Component) bool {
	return bytes.Equal(c.value, other.value)
}

// Compare 按 NDN 规范顺序比较分量
//
// 先比较长度，长度相同时按字节序比较。
func (c Component) Compare(other Component) int {
	if len(c.value) != len(other.value) {
		if len(c.value) < len(other.value) {
			return -1
		}
		return 1
	}
	return bytes.Compare(c.value, other.value)
}

// ToNumber 将分量解释为大端非负整数
func (c Component) ToNumber() (uint64, error) {
	if len(c.value) == 0 || len(c.value) > 8 {
		return 0, errors.New("component is not a valid number")
	}
	var n uint64
	for _, b := range c.value {
		n = n<<8 | uint64(b)
	}
	return n, nil
}

// String 返回分量的转义字符串表示
func (c Component) String() string {
	var sb strings.Builder
	for _, b := range c.value {
		if isUnreservedURIChar(b) {
			sb.WriteByte(b)
		} else {
			fmt.Fprintf(&sb, "%%%02X", b)
		}
	}
	if sb.Len() == 0 {
		// 空分量或全句点分量需要额外的 "..." 前缀
		return "..."
	}
	return sb.String()
}

func isUnreservedURIChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' ||
		b >= '0' && b <= '9' || b == '-' || b == '.' || b == '_' || b == '~'
}

// ============================================================================
//                              Name - 层次化名称
// ============================================================================

// Name NDN 层次化名称
//
// 有序的分量序列，既作为网络寻址也作为密钥/证书的命名空间。
// Name 是可变对象：每次变更都会递增变更计数，
// 供持有方（如 Data 消息）判断缓存的线路编码是否失效。
type Name struct {
	components  []Component
	changeCount uint64
}

// NewName 创建空名称
func NewName() *Name {
	return &Name{}
}

// NameOf 从分量列表创建名称
func NameOf(components ...Component) *Name {
	n := &Name{components: make([]Component, len(components))}
	copy(n.components, components)
	return n
}

// ParseName 从 URI 字符串解析名称
//
// 接受 "/a/b/c" 形式；空串和 "/" 解析为空名称。
// 分量中的 %XX 转义会被还原。
func ParseName(uri string) (*Name, error) {
	name := NewName()
	uri = strings.TrimSpace(uri)
	uri = strings.TrimPrefix(uri, "ndn:")
	if uri == "" || uri == "/" {
		return name, nil
	}
	if !strings.HasPrefix(uri, "/") {
		return nil, fmt.Errorf("name URI must start with '/': %q", uri)
	}
	for _, part := range strings.Split(uri[1:], "/") {
		value, err := unescapeComponent(part)
		if err != nil {
			return nil, err
		}
		name.components = append(name.components, Component{value: value})
	}
	return name, nil
}

// MustParseName 解析名称，失败时 panic（用于常量名称）
func MustParseName(uri string) *Name {
	name, err := ParseName(uri)
	if err != nil {
		panic("types: " + err.Error())
	}
	return name
}

func unescapeComponent(s string) ([]byte, error) {
	var out []byte
	for i := 0; i < len(s); i++ {
		if s[i] == '%' {
			if i+2 >= len(s) {
				return nil, fmt.Errorf("invalid escape in name component %q", s)
			}
			hi, err1 := hexValue(s[i+1])
			lo, err2 := hexValue(s[i+2])
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("invalid escape in name component %q", s)
			}
			out = append(out, hi<<4|lo)
			i += 2
		} else {
			out = append(out, s[i])
		}
	}
	return out, nil
}

func hexValue(b byte) (byte, error) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', nil
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, nil
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, nil
	}
	return 0, errors.New("not a hex digit")
}

// Size 返回分量数量
func (n *Name) Size() int {
	return len(n.components)
}

// Get 返回第 i 个分量
//
// 负索引从末尾计数：Get(-1) 返回最后一个分量。
// 越界时 panic，与切片下标语义一致。
func (n *Name) Get(i int) Component {
	if i < 0 {
		i += len(n.components)
	}
	return n.components[i]
}

// Append 追加分量（原地修改，返回自身便于链式调用）
func (n *Name) Append(c Component) *Name {
	n.components = append(n.components, c)
	n.changeCount++
	return n
}

// AppendString 追加字符串分量
func (n *Name) AppendString(s string) *Name {
	return n.Append(ComponentFromString(s))
}

// AppendNumber 追加数值分量
func (n *Name) AppendNumber(num uint64) *Name {
	return n.Append(ComponentFromNumber(num))
}

// AppendName 依次追加另一个名称的全部分量
func (n *Name) AppendName(other *Name) *Name {
	for _, c := range other.components {
		n.components = append(n.components, c)
	}
	n.changeCount++
	return n
}

// Clear 清空所有分量
func (n *Name) Clear() {
	n.components = nil
	n.changeCount++
}

// GetPrefix 返回前 count 个分量构成的新名称
//
// 负的 count 表示去掉末尾 -count 个分量，即 GetPrefix(-1)
// 返回除最后一个分量外的全部分量。
func (n *Name) GetPrefix(count int) *Name {
	if count < 0 {
		count += len(n.components)
	}
	if count < 0 {
		count = 0
	}
	if count > len(n.components) {
		count = len(n.components)
	}
	return NameOf(n.components[:count]...)
}

// SubName 返回从 offset 开始、共 count 个分量的新名称
//
// 负的 offset 从末尾计数。count 为 -1 表示直到末尾。
func (n *Name) SubName(offset, count int) *Name {
	if offset < 0 {
		offset += len(n.components)
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(n.components) {
		offset = len(n.components)
	}
	if count < 0 || offset+count > len(n.components) {
		count = len(n.components) - offset
	}
	return NameOf(n.components[offset : offset+count]...)
}

// Equal 比较两个名称是否逐分量相等
func (n *Name) Equal(other *Name) bool {
	if len(n.components) != len(other.components) {
		return false
	}
	for i := range n.components {
		if !n.components[i].Equal(other.components[i]) {
			return false
		}
	}
	return true
}

// IsPrefixOf 判断 n 是否为 other 的前缀
func (n *Name) IsPrefixOf(other *Name) bool {
	if len(n.components) > len(other.components) {
		return false
	}
	for i := range n.components {
		if !n.components[i].Equal(other.components[i]) {
			return false
		}
	}
	return true
}

// Compare 按 NDN 规范顺序比较两个名称
func (n *Name) Compare(other *Name) int {
	for i := 0; i < len(n.components) && i < len(other.components); i++ {
		if r := n.components[i].Compare(other.components[i]); r != 0 {
			return r
		}
	}
	switch {
	case len(n.components) < len(other.components):
		return -1
	case len(n.components) > len(other.components):
		return 1
	}
	return 0
}

// Clone 返回名称的深拷贝
func (n *Name) Clone() *Name {
	return NameOf(n.components...)
}

// IsEmpty 判断名称是否为空
func (n *Name) IsEmpty() bool {
	return len(n.components) == 0
}

// String 返回名称的 URI 表示
func (n *Name) String() string {
	if len(n.components) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, c := range n.components {
		sb.WriteByte('/')
		sb.WriteString(c.String())
	}
	return sb.String()
}

// ChangeCount 返回变更计数
//
// 每次 Append/AppendName/Clear 等变更操作后递增。
func (n *Name) ChangeCount() uint64 {
	return n.changeCount
}
