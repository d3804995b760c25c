package file

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"math"

	"github.com/jwalitptl/hms/internal/model"
	apperrors "github.com/jwalitptl/hms/pkg/errors"
)

const (
	magic         = "HMSD"
	formatVersion = 1
)

// Encode writes snapshot in the versioned big-endian layout:
//
//	magic "HMSD" | uint16 version
//	int32 counts (patients, diseases, doctors, appointments)
//	int32 next IDs (same order)
//	records (same order), strings as uint16 length + bytes
//	uint32 CRC-32 (IEEE) of everything before it
func Encode(w io.Writer, snapshot *model.Snapshot) error {
	crc := crc32.NewIEEE()
	bw := bufio.NewWriter(io.MultiWriter(w, crc))
	enc := &encoder{w: bw}

	enc.raw([]byte(magic))
	enc.u16(formatVersion)
	for _, n := range []int{len(snapshot.Patients), len(snapshot.Diseases), len(snapshot.Doctors), len(snapshot.Appointments)} {
		enc.i32(n)
	}
	c := snapshot.Counters
	for _, n := range []int{c.NextPatientID, c.NextDiseaseID, c.NextDoctorID, c.NextAppointmentID} {
		enc.i32(n)
	}

	for _, p := range snapshot.Patients {
		enc.i32(p.ID)
		enc.str(p.Name)
		enc.i32(p.Age)
		enc.str(p.Gender)
		enc.str(p.Phone)
		enc.str(p.Disease)
		enc.i32(p.DoctorID)
	}
	for _, d := range snapshot.Diseases {
		enc.i32(d.ID)
		enc.str(d.Name)
		enc.str(d.Symptoms)
		enc.str(d.Treatment)
	}
	for _, d := range snapshot.Doctors {
		enc.i32(d.ID)
		enc.str(d.Name)
		enc.str(d.Specialization)
		enc.str(d.Phone)
	}
	for _, a := range snapshot.Appointments {
		enc.i32(a.ID)
		enc.i32(a.PatientID)
		enc.i32(a.DoctorID)
		enc.str(a.Date)
		enc.str(a.Time)
	}

	if enc.err != nil {
		return enc.err
	}
	if err := bw.Flush(); err != nil {
		return apperrors.NewIOFailure("failed to write data", err)
	}
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc.Sum32())
	if _, err := w.Write(sum[:]); err != nil {
		return apperrors.NewIOFailure("failed to write checksum", err)
	}
	return nil
}

type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) raw(b []byte) {
	if e.err != nil {
		return
	}
	if _, err := e.w.Write(b); err != nil {
		e.err = apperrors.NewIOFailure("failed to write data", err)
	}
}

func (e *encoder) u16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	e.raw(b[:])
}

func (e *encoder) i32(v int) {
	if e.err != nil {
		return
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		e.err = apperrors.NewInvalidInput(fmt.Sprintf("value %d does not fit in 32 bits", v), nil)
		return
	}
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(int32(v)))
	e.raw(b[:])
}

func (e *encoder) str(s string) {
	if e.err != nil {
		return
	}
	if len(s) > math.MaxUint16 {
		e.err = apperrors.NewInvalidInput(fmt.Sprintf("string of %d bytes is too long to store", len(s)), nil)
		return
	}
	e.u16(uint16(len(s)))
	e.raw([]byte(s))
}

// Decode reads a snapshot written by Encode. Any structural problem is
// reported as CorruptData; failures of the underlying reader as IOFailure.
func Decode(r io.Reader) (*model.Snapshot, error) {
	crc := crc32.NewIEEE()
	dec := &decoder{r: bufio.NewReader(r), crc: crc}

	head := dec.raw(len(magic))
	if dec.err == nil && !bytes.Equal(head, []byte(magic)) {
		return nil, apperrors.NewCorruptData("not a data file: bad magic", nil)
	}
	version := dec.u16()
	if dec.err == nil && version != formatVersion {
		return nil, apperrors.NewCorruptData(fmt.Sprintf("unsupported format version %d", version), nil)
	}

	counts := [4]int{}
	for i := range counts {
		counts[i] = dec.i32()
		if dec.err == nil && counts[i] < 0 {
			return nil, apperrors.NewCorruptData(fmt.Sprintf("negative record count %d", counts[i]), nil)
		}
	}
	next := [4]int{}
	for i := range next {
		next[i] = dec.i32()
		if dec.err == nil && next[i] < 1 {
			return nil, apperrors.NewCorruptData(fmt.Sprintf("ID counter %d below 1", next[i]), nil)
		}
	}
	if dec.err != nil {
		return nil, dec.err
	}

	snap := &model.Snapshot{
		Counters: model.Counters{
			NextPatientID:     next[0],
			NextDiseaseID:     next[1],
			NextDoctorID:      next[2],
			NextAppointmentID: next[3],
		},
	}

	// Counts are not trusted for preallocation; the data must actually be there.
	for i := 0; i < counts[0] && dec.err == nil; i++ {
		snap.Patients = append(snap.Patients, model.Patient{
			ID:       dec.i32(),
			Name:     dec.str(),
			Age:      dec.i32(),
			Gender:   dec.str(),
			Phone:    dec.str(),
			Disease:  dec.str(),
			DoctorID: dec.i32(),
		})
	}
	for i := 0; i < counts[1] && dec.err == nil; i++ {
		snap.Diseases = append(snap.Diseases, model.Disease{
			ID:        dec.i32(),
			Name:      dec.str(),
			Symptoms:  dec.str(),
			Treatment: dec.str(),
		})
	}
	for i := 0; i < counts[2] && dec.err == nil; i++ {
		snap.Doctors = append(snap.Doctors, model.Doctor{
			ID:             dec.i32(),
			Name:           dec.str(),
			Specialization: dec.str(),
			Phone:          dec.str(),
		})
	}
	for i := 0; i < counts[3] && dec.err == nil; i++ {
		snap.Appointments = append(snap.Appointments, model.Appointment{
			ID:        dec.i32(),
			PatientID: dec.i32(),
			DoctorID:  dec.i32(),
			Date:      dec.str(),
			Time:      dec.str(),
		})
	}
	if dec.err != nil {
		return nil, dec.err
	}

	want := crc.Sum32()
	var sum [4]byte
	if _, err := io.ReadFull(dec.r, sum[:]); err != nil {
		return nil, readError(err)
	}
	if got := binary.BigEndian.Uint32(sum[:]); got != want {
		return nil, apperrors.NewCorruptData(fmt.Sprintf("checksum mismatch: stored %08x, computed %08x", got, want), nil)
	}

	var extra [1]byte
	if n, _ := dec.r.Read(extra[:]); n > 0 {
		return nil, apperrors.NewCorruptData("trailing bytes after checksum", nil)
	}
	return snap, nil
}

type decoder struct {
	r   *bufio.Reader
	crc hash.Hash32
	err error
}

func (d *decoder) raw(n int) []byte {
	if d.err != nil {
		return nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(d.r, b); err != nil {
		d.err = readError(err)
		return nil
	}
	d.crc.Write(b)
	return b
}

func (d *decoder) u16() uint16 {
	b := d.raw(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (d *decoder) i32() int {
	b := d.raw(4)
	if b == nil {
		return 0
	}
	return int(int32(binary.BigEndian.Uint32(b)))
}

func (d *decoder) str() string {
	n := d.u16()
	if d.err != nil {
		return ""
	}
	return string(d.raw(int(n)))
}

func readError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return apperrors.NewCorruptData("unexpected end of data", err)
	}
	return apperrors.NewIOFailure("failed to read data", err)
}
