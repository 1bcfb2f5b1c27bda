package camgeom

import (
	"context"

	"go.viam.com/eucm/utils"
)

// ParallelPixelToCamera is PixelToCamera with the rows split into contiguous groups that
// are unprojected concurrently. The result matches the sequential call exactly.
func ParallelPixelToCamera[R Real](
	ctx context.Context,
	model IntrinsicParameters[R],
	pixels *Pixels[R],
) (*RayBundle[R], error) {
	out := NewRayBundle[R](pixels.Len())
	err := utils.GroupWorkParallel(
		ctx,
		pixels.Len(),
		func(int) {},
		func(groupNum, groupSize, from, to int) (utils.MemberWorkFunc, utils.GroupWorkDoneFunc) {
			if from == to {
				return nil, nil
			}
			return nil, func() {
				rays := model.PixelToCamera(pixels.Slice(from, to))
				copy(out.Slice(from, to).data, rays.data)
			}
		},
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParallelCameraToPixel is CameraToPixel with the rows split into contiguous groups that
// are projected concurrently. The result matches the sequential call exactly.
func ParallelCameraToPixel[R Real](
	ctx context.Context,
	model IntrinsicParameters[R],
	points *Points[R],
) (*Pixels[R], error) {
	out := NewPixels[R](points.Len())
	err := utils.GroupWorkParallel(
		ctx,
		points.Len(),
		func(int) {},
		func(groupNum, groupSize, from, to int) (utils.MemberWorkFunc, utils.GroupWorkDoneFunc) {
			if from == to {
				return nil, nil
			}
			return nil, func() {
				pixels := model.CameraToPixel(points.Slice(from, to))
				copy(out.Slice(from, to).data, pixels.data)
			}
		},
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}
