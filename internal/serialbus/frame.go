package serialbus

// encodeRequest builds the 13 byte Daly UART request frame for a command:
// start byte, host address, command, data length, 8 data bytes, checksum.
func encodeRequest(command byte) []byte {
	frame := make([]byte, frameLength)
	frame[0] = startByte
	frame[1] = hostAddress
	frame[2] = command
	frame[3] = 8
	frame[frameLength-1] = checksum(frame[:frameLength-1])
	return frame
}

// decodeResponse validates a 13 byte response frame and returns its 8 data
// bytes.
func decodeResponse(frame []byte, command byte) ([]byte, error) {
	if len(frame) != frameLength || frame[0] != startByte || frame[1] != replyAddress || frame[2] != command || frame[3] != 8 {
		return nil, ErrBadFrame
	}
	if frame[frameLength-1] != checksum(frame[:frameLength-1]) {
		return nil, ErrBadChecksum
	}
	return frame[4 : 4+8], nil
}

func checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}
