package pbj

// Register operand descriptors share a 16-bit base word: bit 0x8000
// selects the int register file, the low 15 bits are the register index.

func registerKind(word uint16) RegisterKind {
	if word&0x8000 != 0 {
		return RegisterInt
	}
	return RegisterFloat
}

// decodeDstRegister decodes a destination descriptor from its base word
// and 4-bit channel mask. Mask bits 0x8, 0x4, 0x2, 0x1 select R, G, B, A;
// selected channels appear in fixed R,G,B,A order regardless of mask bit
// order.
func decodeDstRegister(word uint16, mask uint8) Register {
	channels := make([]Channel, 0, 4)
	if mask&0x8 != 0 {
		channels = append(channels, ChannelR)
	}
	if mask&0x4 != 0 {
		channels = append(channels, ChannelG)
	}
	if mask&0x2 != 0 {
		channels = append(channels, ChannelB)
	}
	if mask&0x1 != 0 {
		channels = append(channels, ChannelA)
	}

	return Register{
		Index:    word & 0x7FFF,
		Kind:     registerKind(word),
		Channels: channels,
	}
}

// decodeSrcRegister decodes a source descriptor. The low 16 bits of word
// are the base word; the high bits hold the swizzle field, 2 bits per
// operand at bit offsets 6, 4, 2, 0. count is the operand count demanded
// by the enclosing instruction (1-4); extraction order is preserved in
// the channel list.
func decodeSrcRegister(word uint32, count uint8) Register {
	swizzle := word >> 16
	channels := make([]Channel, 0, count)
	for i := uint8(0); i < count; i++ {
		channels = append(channels, rgbaChannels[swizzle>>(6-2*i)&0x3])
	}

	return Register{
		Index:    uint16(word) & 0x7FFF,
		Kind:     registerKind(uint16(word)),
		Channels: channels,
	}
}
