// Command b4ddemo exercises the blaze4d object lifecycle against the
// instrumented in-memory device.
package main

import (
	"encoding/binary"
	"flag"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/gputypes"

	blaze4d "github.com/whywhywhyw/Blaze4D"
	"github.com/whywhywhyw/Blaze4D/objects"
	"github.com/whywhywhyw/Blaze4D/vk/vktest"
)

func main() {
	var (
		meshes  = flag.Int("meshes", 16, "number of static meshes to create")
		budget  = flag.Uint64("budget", 0, "allocator budget in bytes, 0 for unlimited")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		blaze4d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	dev := vktest.NewDevice()

	var opts []objects.Option
	if *budget != 0 {
		opts = append(opts, objects.WithMemoryBudget(*budget))
	}
	b4d := blaze4d.New(dev, opts...)

	b4d.SetVertexFormats([]blaze4d.VertexFormat{{
		Topology:       gputypes.PrimitiveTopologyTriangleList,
		Stride:         12,
		PositionOffset: 0,
		PositionFormat: gputypes.VertexFormatFloat32x3,
	}})

	ids := make([]blaze4d.StaticMeshID, 0, *meshes)
	for i := 0; i < *meshes; i++ {
		id, err := b4d.CreateStaticMesh(quadMesh())
		if err != nil {
			log.Fatalf("Failed to create mesh %d: %v", i, err)
		}
		ids = append(ids, id)
	}
	log.Printf("Created %d static meshes", b4d.MeshCount())

	// Drop every other mesh, then close with the rest still live.
	for i := 0; i < len(ids); i += 2 {
		if err := b4d.DropStaticMesh(ids[i]); err != nil {
			log.Fatalf("Failed to drop mesh: %v", err)
		}
	}
	log.Printf("Dropped half, %d remaining", b4d.MeshCount())

	stats := b4d.Manager().Allocator().Stats()
	log.Printf("Allocator: %s", stats)

	// Force an allocation failure on the next mesh to show batch abort:
	// the partially built batch unwinds and nothing leaks.
	dev.InjectFailure(vktest.OpAllocateMemory, 1, nil)
	if _, err := b4d.CreateStaticMesh(quadMesh()); err != nil {
		log.Printf("Injected failure aborted batch: %v", err)
	}
	log.Printf("After abort: %d objects, %d allocations live",
		dev.LiveObjects()-2*b4d.MeshCount(), dev.LiveAllocations()-2*b4d.MeshCount())

	b4d.Close()

	log.Printf("Device after close: %d objects, %d allocations, %d semaphores",
		dev.LiveObjects(), dev.LiveAllocations(), dev.LiveSemaphores())
}

// quadMesh builds a unit quad: 4 vertices of 3 float32s, 6 uint16 indices.
func quadMesh() blaze4d.MeshData {
	positions := [][3]float32{
		{0, 0, 0},
		{1, 0, 0},
		{1, 1, 0},
		{0, 1, 0},
	}
	vertexData := make([]byte, 0, len(positions)*12)
	for _, p := range positions {
		for _, c := range p {
			vertexData = binary.LittleEndian.AppendUint32(vertexData, math.Float32bits(c))
		}
	}

	indices := []uint16{0, 1, 2, 2, 3, 0}
	indexData := make([]byte, 0, len(indices)*2)
	for _, i := range indices {
		indexData = binary.LittleEndian.AppendUint16(indexData, i)
	}

	return blaze4d.MeshData{
		VertexData:   vertexData,
		IndexData:    indexData,
		VertexStride: 12,
		IndexCount:   uint32(len(indices)),
		IndexFormat:  gputypes.IndexFormatUint16,
	}
}
