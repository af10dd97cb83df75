package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/annel0/blockworld/internal/config"
	"github.com/annel0/blockworld/internal/vec"
	"github.com/annel0/blockworld/internal/world"
	"github.com/annel0/blockworld/internal/world/block"
)

// Символы высоты от низкой к высокой
const heightRamp = " .:-=+*#%@"

func main() {
	var (
		configPath = flag.String("config", "", "путь к YAML конфигурации")
		command    = flag.String("cmd", "heightmap", "Команда: heightmap, column, chunks")
		seed       = flag.Int64("seed", 0, "сид мира, перекрывает world.seed")
		x          = flag.Int("x", 0, "мировая координата X (левый край карты или колонна)")
		z          = flag.Int("z", 0, "мировая координата Z (верхний край карты или колонна)")
		width      = flag.Int("w", 64, "ширина карты высот")
		depth      = flag.Int("d", 32, "глубина карты высот")
		radius     = flag.Int("r", 2, "радиус в чанках для chunks")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}
	gen := world.NewTerrainGenerator(cfg.ToGenerator())

	switch *command {
	case "heightmap":
		printHeightmap(gen, *x, *z, *width, *depth)
	case "column":
		printColumn(gen, *x, *z)
	case "chunks":
		printChunks(gen, cfg.World.ChunkSize, *radius)
	default:
		fmt.Fprintf(os.Stderr, "❌ Неизвестная команда: %s\n", *command)
		flag.Usage()
		os.Exit(2)
	}
}

// printHeightmap выводит карту высот прямоугольника в виде ASCII
func printHeightmap(gen *world.TerrainGenerator, x0, z0, w, d int) {
	heights := make([][]int, d)
	lo, hi := int(^uint(0)>>1), 0
	for dz := 0; dz < d; dz++ {
		heights[dz] = make([]int, w)
		for dx := 0; dx < w; dx++ {
			h := gen.HeightAt(x0+dx, z0+dz)
			heights[dz][dx] = h
			lo, hi = min(lo, h), max(hi, h)
		}
	}

	fmt.Printf("🗺  seed=%d, x=[%d,%d), z=[%d,%d), высота %d..%d\n", gen.Seed(), x0, x0+w, z0, z0+d, lo, hi)
	span := max(hi-lo, 1)
	for _, row := range heights {
		var sb strings.Builder
		for _, h := range row {
			sb.WriteByte(heightRamp[(h-lo)*(len(heightRamp)-1)/span])
		}
		fmt.Println(sb.String())
	}
}

// printColumn выводит колонну рельефа сверху вниз
func printColumn(gen *world.TerrainGenerator, x, z int) {
	column := gen.Column(x, z)
	fmt.Printf("📍 Колонна (%d, %d): высота %d\n", x, z, gen.HeightAt(x, z))
	for _, b := range column {
		fmt.Printf("  y=%-4d %s\n", b.Y, b.Type)
	}
}

// printChunks генерирует чанки в квадрате радиуса r и выводит статистику
func printChunks(gen *world.TerrainGenerator, size, r int) {
	counts := make(map[block.Type]int)
	total := 0
	start := time.Now()

	for cx := -r; cx < r; cx++ {
		for cz := -r; cz < r; cz++ {
			ch := world.NewChunk(vec.Vec2{X: cx, Z: cz}, size)
			total += ch.Generate(gen)
			ch.ForEachBlock(func(b world.Block) bool {
				counts[b.Type]++
				return true
			})
		}
	}

	fmt.Printf("📦 Чанков: %d, блоков: %d, время: %v\n", 4*r*r, total, time.Since(start))
	for _, t := range block.All() {
		if counts[t] > 0 {
			fmt.Printf("  %-14s %d\n", t, counts[t])
		}
	}
}
